// internal/handlers/metadata.go
package handlers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/tapedeck/tapedeck-backend/internal/i18n"
	"github.com/tapedeck/tapedeck-backend/internal/services"
	"github.com/tapedeck/tapedeck-backend/internal/utils"
)

type MetadataHandler struct {
	metadataService *services.MetadataService
}

func NewMetadataHandler(metadataService *services.MetadataService) *MetadataHandler {
	return &MetadataHandler{metadataService: metadataService}
}

// GET /metadata/search?query=&year=
func (h *MetadataHandler) SearchMovies(c *gin.Context) {
	results, err := h.metadataService.SearchMovies(c.Request.Context(), c.Query("query"), c.Query("year"))
	if err != nil {
		h.respondLookupError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"results": results})
}

// GET /metadata/movie/:id
func (h *MetadataHandler) GetMovieDetails(c *gin.Context) {
	movieID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid movie ID", nil)
		return
	}

	details, err := h.metadataService.GetMovieDetails(c.Request.Context(), movieID)
	if err != nil {
		h.respondLookupError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"movie": details})
}

func (h *MetadataHandler) respondLookupError(c *gin.Context, err error) {
	lang := utils.GetLangFromContext(c)

	if errors.Is(err, services.ErrQueryTooShort) {
		utils.BadRequestResponse(c, err.Error(), gin.H{"field": "query"})
		return
	}

	var upstreamErr *services.UpstreamError
	if errors.As(err, &upstreamErr) {
		status := upstreamErr.StatusCode
		if status < 400 || status > 599 {
			status = 502
		}
		utils.ErrorResponse(c, status, "METADATA_UPSTREAM_ERROR", i18n.T(lang, i18n.KeyMetadataLookupFailed), gin.H{
			"upstream_status":  upstreamErr.StatusCode,
			"upstream_message": upstreamErr.Message,
		})
		return
	}

	utils.ErrorResponse(c, 502, "METADATA_UNAVAILABLE", i18n.T(lang, i18n.KeyMetadataLookupFailed), nil)
}
