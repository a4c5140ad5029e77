// internal/server/handlers.go
package server

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	commonerrors "jobmap/internal/common/errors"
	"jobmap/internal/common/logger"
	"jobmap/internal/common/validation"
	"jobmap/internal/models"
)

type searchHandler struct {
	searcher Searcher
	logger   logger.Logger
}

// Search handles POST /api/jobs.
func (h *searchHandler) Search(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.fail(c, commonerrors.NewInvalidRequestError("request body could not be read"))
		return
	}

	if err := validation.ValidateSearchRequest(body); err != nil {
		h.fail(c, commonerrors.NewInvalidRequestError(err.Error()))
		return
	}

	var req searchRequest
	if err := json.Unmarshal(body, &req); err != nil {
		h.fail(c, commonerrors.NewInvalidRequestError("request body is not valid JSON"))
		return
	}

	criteria, err := req.toCriteria()
	if err != nil {
		h.fail(c, err)
		return
	}

	jobs, err := h.searcher.Search(c.Request.Context(), criteria)
	if err != nil {
		h.fail(c, err)
		return
	}
	if jobs == nil {
		jobs = []models.NormalizedJob{}
	}

	c.JSON(http.StatusOK, searchResponse{Jobs: jobs})
}

func (h *searchHandler) fail(c *gin.Context, err error) {
	stdErr := commonerrors.Normalize(err)
	status, body := commonerrors.ToResponse(stdErr)

	if status >= http.StatusInternalServerError {
		h.logger.Error("Search failed", map[string]interface{}{
			"request_id": c.GetString("request_id"),
			"code":       string(stdErr.Code),
			"details":    stdErr.Details,
		})
	} else {
		h.logger.Warn("Search rejected", map[string]interface{}{
			"request_id": c.GetString("request_id"),
			"code":       string(stdErr.Code),
		})
	}

	c.JSON(status, body)
}
