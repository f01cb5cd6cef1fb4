package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/recast/models"
)

// Cloner runs the clone pipeline for one request.
// *pipeline.Pipeline satisfies this; tests substitute stubs.
type Cloner interface {
	Clone(ctx context.Context, req *models.CloneRequest) (*models.CloneResponse, error)
}

// Clone returns a handler for POST /clone_website.
//
// Flow:
//  1. Parse & validate the JSON body (missing target_url → 400).
//  2. Run the pipeline: render → extract → prompt → generate.
//  3. On failure, map the error code to an HTTP status and return a body
//     with a human-readable detail message.
func Clone(p Cloner) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.CloneRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.CloneResponse{
				Success: false,
				Detail:  err.Error(),
				Error: &models.ErrorDetail{
					Code:    models.ErrCodeInvalidInput,
					Message: err.Error(),
				},
			})
			return
		}

		resp, err := p.Clone(c.Request.Context(), &req)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, resp)
	}
}

// respondError maps a CloneError to the correct HTTP status code and writes
// a structured JSON error response. The detail field carries the message the
// frontend displays inline in the preview area.
func respondError(c *gin.Context, err error) {
	cloneErr := models.AsCloneError(err)

	c.JSON(mapErrorToStatus(cloneErr), models.CloneResponse{
		Success: false,
		Detail:  cloneErr.Message,
		Error:   cloneErr.ToDetail(),
	})
}

// mapErrorToStatus translates error codes to HTTP status codes.
func mapErrorToStatus(e *models.CloneError) int {
	switch e.Code {
	case models.ErrCodeInvalidInput:
		return http.StatusBadRequest // 400
	case models.ErrCodeScrapeTimeout:
		return http.StatusGatewayTimeout // 504
	case models.ErrCodeScrape, models.ErrCodeGeneration, models.ErrCodeGenerationAuth:
		return http.StatusBadGateway // 502
	case models.ErrCodeGenerationRate:
		return http.StatusTooManyRequests // 429
	default:
		return http.StatusInternalServerError // 500
	}
}
