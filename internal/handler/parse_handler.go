package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"habitflow/internal/dateparse"
	"habitflow/pkg/metrics"
)

type ParseHandler struct {
	parser *dateparse.Parser
}

func NewParseHandler(parser *dateparse.Parser) *ParseHandler {
	return &ParseHandler{parser: parser}
}

// ParseDate handles POST /parse-date
// Failures come back as a 422 with the reason; an ambiguous result falls
// back to its first candidate.
func (h *ParseHandler) ParseDate(c *gin.Context) {
	var req struct {
		Text string `json:"text"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	result := h.parser.Parse(req.Text)
	metrics.IncrementDateParse(result.Status.String())

	switch result.Status {
	case dateparse.StatusSuccess:
		c.JSON(http.StatusOK, gin.H{
			"date":       result.Date.Format("2006-01-02"),
			"confidence": result.Confidence,
		})
	case dateparse.StatusAmbiguous:
		if len(result.Candidates) == 0 {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "ambiguous date"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"date":        result.Candidates[0].Format("2006-01-02"),
			"suggestions": result.Suggestions,
		})
	default:
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": result.Reason})
	}
}
