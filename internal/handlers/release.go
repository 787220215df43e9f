// internal/handlers/release.go
package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/tapedeck/tapedeck-backend/internal/i18n"
	"github.com/tapedeck/tapedeck-backend/internal/services"
	"github.com/tapedeck/tapedeck-backend/internal/utils"
)

type ReleaseHandler struct {
	submissionService *services.SubmissionService
	collectionService *services.CollectionService
}

func NewReleaseHandler(submissionService *services.SubmissionService, collectionService *services.CollectionService) *ReleaseHandler {
	return &ReleaseHandler{
		submissionService: submissionService,
		collectionService: collectionService,
	}
}

// GET /releases
func (h *ReleaseHandler) GetReleases(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	result, err := h.submissionService.ListMasters(params)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.PaginatedResponse(c, *result)
}

// GET /releases/:id
func (h *ReleaseHandler) GetRelease(c *gin.Context) {
	masterID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	master, err := h.submissionService.GetMaster(masterID)
	if err != nil {
		respondServiceError(c, err, "release")
		return
	}

	utils.SuccessResponse(c, gin.H{"release": master})
}

// POST /releases (multipart: title fields + variant fields + slot images)
func (h *ReleaseHandler) SubmitRelease(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	year, _ := strconv.Atoi(c.PostForm("year"))
	req := services.SubmitTitleRequest{
		Title:    c.PostForm("title"),
		Year:     year,
		Director: c.PostForm("director"),
		Studio:   c.PostForm("studio"),
		Genre:    c.PostForm("genre"),
		Variant:  parseVariantFields(c),
	}

	images, err := collectImageUploads(c)
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyFileUploadFailed), err.Error())
		return
	}

	master, err := h.submissionService.SubmitTitle(c.Request.Context(), userID, &req, images)
	if err != nil {
		respondServiceError(c, err, "release")
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyReleaseCreated),
		"release": master,
	})
}

// PUT /releases/:id
func (h *ReleaseHandler) UpdateRelease(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	masterID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if _, ok := currentUserID(c); !ok {
		return
	}

	var req services.UpdateMasterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	master, err := h.submissionService.UpdateMaster(c.Request.Context(), masterID, &req)
	if err != nil {
		respondServiceError(c, err, "release")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyReleaseUpdated),
		"release": master,
	})
}

// DELETE /releases/:id (admin, confirm=true, cascades to variants and images)
func (h *ReleaseHandler) DeleteRelease(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	masterID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if !requireConfirmation(c) {
		return
	}

	if err := h.submissionService.DeleteMaster(masterID); err != nil {
		respondServiceError(c, err, "release")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyReleaseDeleted),
	})
}

// PUT /releases/:id/rating
func (h *ReleaseHandler) RateRelease(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	masterID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.SetRatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	master, err := h.collectionService.SetRating(userID, masterID, &req)
	if err != nil {
		respondServiceError(c, err, "release")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyRatingSaved),
		"release": master,
	})
}
