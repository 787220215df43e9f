// internal/handlers/variant.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/tapedeck/tapedeck-backend/internal/i18n"
	"github.com/tapedeck/tapedeck-backend/internal/models"
	"github.com/tapedeck/tapedeck-backend/internal/services"
	"github.com/tapedeck/tapedeck-backend/internal/utils"
)

type VariantHandler struct {
	submissionService *services.SubmissionService
}

func NewVariantHandler(submissionService *services.SubmissionService) *VariantHandler {
	return &VariantHandler{submissionService: submissionService}
}

// GET /releases/:id/variants
func (h *VariantHandler) GetVariants(c *gin.Context) {
	masterID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	// Pending variants are only shown when explicitly requested.
	approvedOnly := c.Query("include_pending") != "true"

	variants, err := h.submissionService.ListVariants(masterID, approvedOnly)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{"variants": variants})
}

// POST /releases/:id/variants (multipart: variant fields + slot images)
func (h *VariantHandler) SubmitVariant(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	masterID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	fields := parseVariantFields(c)
	images, err := collectImageUploads(c)
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyFileUploadFailed), err.Error())
		return
	}

	variant, err := h.submissionService.SubmitVariant(userID, masterID, &fields, images)
	if err != nil {
		respondServiceError(c, err, "release")
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyVariantSubmitted),
		"variant": variant,
	})
}

// PUT /variants/:id (multipart: variant fields + optional replacement images)
func (h *VariantHandler) UpdateVariant(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	variantID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if _, ok := currentUserID(c); !ok {
		return
	}

	fields := parseVariantFields(c)
	images, err := collectImageUploads(c)
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyFileUploadFailed), err.Error())
		return
	}

	variant, err := h.submissionService.UpdateVariant(variantID, &fields, images)
	if err != nil {
		respondServiceError(c, err, "variant")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyVariantUpdated),
		"variant": variant,
	})
}

// DELETE /variants/:id (admin, confirm=true)
func (h *VariantHandler) DeleteVariant(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	variantID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if !requireConfirmation(c) {
		return
	}

	if err := h.submissionService.DeleteVariant(variantID); err != nil {
		respondServiceError(c, err, "variant")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyVariantDeleted),
	})
}

// POST /variants/:id/votes
func (h *VariantHandler) CastVote(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	variantID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req struct {
		VoteType models.VoteType `json:"vote_type" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "vote_type"), err.Error())
		return
	}

	variant, err := h.submissionService.CastVote(variantID, userID, req.VoteType)
	if err != nil {
		respondServiceError(c, err, "variant")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyVoteRecorded),
		"variant": variant,
	})
}
