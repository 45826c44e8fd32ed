package service

import (
	"fmt"
)

// termExtractionPrompt builds the document-analysis prompt. The model must
// answer with a single JSON object {"terms": [...]}.
func termExtractionPrompt(text string) string {
	return fmt.Sprintf(`From the text provided below, identify all key technical terms, materials, and components.
Return the result as a single, valid JSON object with a single key "terms" which is a list of strings.
Example: {"terms": ["polycarbonate", "servo motor", "chassis"]}
Text to analyze:
%s`, text)
}

// diagramLabelingPrompt is sent together with the normalized diagram image.
// Label uniqueness is demanded here rather than enforced in code; the model
// is the only line of defense against duplicate labels.
const diagramLabelingPrompt = `Act as an expert mechanical engineering mentor analyzing a technical diagram for a robotics student.
Your task is to identify a WIDE VARIETY of distinct components.

**CRITICAL INSTRUCTION: DUPLICATE LABELS ARE STRICTLY FORBIDDEN. Each "label" must be unique.**

**Chain of Thought Process:**
1.  **Initial Scan:** Mentally identify every single visible component in the image.
2.  **Filtering:** From your initial list, discard any labels that are generic, unhelpful, or duplicates.
    - **BAD:** "structure", "frame", "plate", "screw", "bolt", "upper plate", "lower bracket", "assembling piece"
    - **GOOD:** "star wheel", "motor mount", "bearing block", "gusset", "spur gear", "bevel gear"
3.  **Selection:** Select only the most important, specific, and uniquely named components. The label should be the technical name of the part, without adjectives describing its position (e.g., "gusset", not "left gusset"). Focus on parts critical to the mechanism's function.
4.  **Description:** For each selected component, write a concise, functional description.
5.  **Bounding Box:** For each selected component, define its bounding box.
6.  **Final Review:** Before generating the JSON, review your list one last time to ensure there are absolutely no duplicate labels.

**Output Format:**
Return a single, valid JSON object with a single key "labels".
The "labels" key should contain a list of objects, where each object has:
1. "label": A string identifying the specific, named component. **This MUST be unique within the list.**
2. "description": A brief, one-sentence explanation of that component's primary function in the assembly.
3. "box": A list of four numbers representing the bounding box [x_min, y_min, x_max, y_max], normalized between 0 and 1.

Example for an image of a planetary gearbox:
{
  "labels": [
    {
      "label": "Sun Gear",
      "description": "The central gear that meshes with the planet gears to determine the overall gear ratio.",
      "box": [0.4, 0.4, 0.6, 0.6]
    },
    {
      "label": "Planet Gear",
      "description": "Multiple gears that revolve around the sun gear, distributing the load and creating the reduction.",
      "box": [0.25, 0.25, 0.75, 0.75]
    }
  ]
}`

// explainTermPrompt builds the synchronous explanation-card prompt for a
// single term.
func explainTermPrompt(term string) string {
	return fmt.Sprintf(`Act as an expert AI Mechanical Mentor for a robotics beginner. The user has clicked on the term %[1]q.
Your goal is to provide a deep, conceptual understanding, not just a simple definition.
Anticipate the user's underlying questions about design and application. For example, if the term is "hollow shaft", explain WHY engineers use them (weight reduction, running wires) and the basic principles of how to design them (e.g., considering wall thickness vs. strength).

Provide a detailed but easy-to-understand breakdown. Your response must be a single, valid JSON object with no surrounding text or markdown markers.

Your JSON object must have the following structure:
{
  "explanation": "A detailed but beginner-friendly explanation of the term, focusing on the 'why' and 'how'. Use Markdown for formatting. **For any bulleted lists, ensure there is an empty line between each bullet point for readability.** **After each '###' heading, also add an empty line before the following text.** Use ### Headings, **bold**, and *italics* as needed.",
  "pros": ["A list of 2-3 key advantages or reasons to use this.", "Another pro."],
  "cons": ["A list of 2-3 key disadvantages or trade-offs.", "Another con."],
  "alternatives": [
    { "term": "Alternative Term", "description": "A brief explanation of why this is an alternative." },
    { "term": "Another Alternative", "description": "Another brief explanation." }
  ],
  "links": [
    {
      "title": "High-Quality Image of %[1]s",
      "url": "A direct link to a high-quality image of the item. **Prioritize images from andymark.com, vexrobotics.com, or chiefdelphi.com.** If a good image cannot be found there, use a clear, illustrative photo from a general image search.",
      "category": "Image"
    },
    {
      "title": "Shop for '%[1]s' on AndyMark",
      "url": "A direct link to the search results for '%[1]s robotics' on andymark.com.",
      "category": "Supplier"
    },
    {
      "title": "Shop for '%[1]s' on VEXpro",
      "url": "A direct link to the search results for '%[1]s robotics' on vexrobotics.com/pro.",
      "category": "Supplier"
    },
    {
      "title": "Shop for '%[1]s' on McMaster-Carr",
      "url": "A direct link to the search results for '%[1]s robotics' on mcmaster.com.",
      "category": "Supplier"
    },
    {
      "title": "Read discussions about '%[1]s' on Chief Delphi",
      "url": "A direct link to a relevant discussion thread about '%[1]s robotics' on chiefdelphi.com.",
      "category": "Community"
    }
  ]
}`, term)
}
