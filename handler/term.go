package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yyonggg2/MechMentorApp/service"
)

type TermHandler struct {
	store   *service.TermStore
	gateway service.ModelGateway
}

// NewTermHandler creates the handler for term persistence and explanation.
// gateway may be nil when no API credential is configured; the explanation
// endpoint then reports the service as unavailable.
func NewTermHandler(store *service.TermStore, gateway service.ModelGateway) *TermHandler {
	return &TermHandler{
		store:   store,
		gateway: gateway,
	}
}

type ExplainTermRequest struct {
	Term string `json:"term" binding:"required"`
}

// ExplainTerm asks the model for a structured explanation card and returns
// it directly. Gateway and parse failures surface as a 500 to the caller.
func (h *TermHandler) ExplainTerm(c *gin.Context) {
	var req ExplainTermRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if h.gateway == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "AI services not configured."})
		return
	}

	card, err := service.ExplainTerm(c.Request.Context(), h.gateway, req.Term)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, card)
}

type CreateTermRequest struct {
	Term     string `json:"term" binding:"required"`
	Analysis string `json:"analysis" binding:"required"`
}

// CreateTerm persists a user-confirmed term. The term string is unique; a
// second confirmation of the same term is a conflict.
func (h *TermHandler) CreateTerm(c *gin.Context) {
	var req CreateTermRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	term, err := h.store.Create(c.Request.Context(), req.Term, req.Analysis)
	if err != nil {
		if errors.Is(err, service.ErrDuplicateTerm) {
			c.JSON(http.StatusConflict, gin.H{"error": "Term already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create term: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, term)
}

// ListTerms returns persisted terms, paginated with skip/limit.
func (h *TermHandler) ListTerms(c *gin.Context) {
	skip := intQuery(c, "skip", 0)
	limit := intQuery(c, "limit", 100)

	terms, err := h.store.List(c.Request.Context(), skip, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list terms: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, terms)
}

func intQuery(c *gin.Context, name string, def int) int {
	v, err := strconv.Atoi(c.DefaultQuery(name, strconv.Itoa(def)))
	if err != nil {
		return def
	}
	return v
}
