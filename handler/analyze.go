package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yyonggg2/MechMentorApp/service"
)

type AnalyzeHandler struct {
	store    *service.JobStore
	analyzer *service.Analyzer
}

func NewAnalyzeHandler(store *service.JobStore, analyzer *service.Analyzer) *AnalyzeHandler {
	return &AnalyzeHandler{
		store:    store,
		analyzer: analyzer,
	}
}

// Analyze accepts a multipart upload with optional "document" and "diagram"
// parts, creates a pending job and schedules the analysis. The caller gets
// the job id back immediately and polls for the outcome.
func (h *AnalyzeHandler) Analyze(c *gin.Context) {
	document, _, err := readFormFile(c, "document")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read document upload"})
		return
	}

	diagram, diagramType, err := readFormFile(c, "diagram")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read diagram upload"})
		return
	}

	if document == nil && diagram == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please upload a document or a diagram."})
		return
	}

	job := h.store.Create()

	h.analyzer.Submit(service.AnalysisTask{
		JobID:       job.ID,
		Document:    document,
		Diagram:     diagram,
		DiagramType: diagramType,
	})

	c.JSON(http.StatusOK, gin.H{"job_id": job.ID})
}

// Status returns the current state of a job; 404 for ids we never issued.
func (h *AnalyzeHandler) Status(c *gin.Context) {
	job, ok := h.store.Get(c.Param("job_id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Job not found."})
		return
	}

	c.JSON(http.StatusOK, job)
}

// readFormFile reads an optional multipart file part. A missing part is not
// an error; a part that cannot be read is.
func readFormFile(c *gin.Context, name string) ([]byte, string, error) {
	fh, err := c.FormFile(name)
	if err != nil {
		// Covers both "no multipart body" and "part not present".
		return nil, "", nil
	}

	file, err := fh.Open()
	if err != nil {
		return nil, "", err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, "", err
	}
	return data, fh.Header.Get("Content-Type"), nil
}
