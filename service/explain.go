package service

import (
	"context"

	"github.com/yyonggg2/MechMentorApp/model"
)

// ExplainTerm asks the fast model for a structured explanation card for one
// term. Synchronous: gateway or parse failures surface directly to the
// caller, with no job indirection and no retry.
func ExplainTerm(ctx context.Context, gateway ModelGateway, term string) (*model.TermExplanation, error) {
	raw, err := gateway.GenerateFast(ctx, explainTermPrompt(term))
	if err != nil {
		return nil, err
	}

	var card model.TermExplanation
	if err := DecodeModelJSON(raw, &card); err != nil {
		return nil, err
	}
	return &card, nil
}
