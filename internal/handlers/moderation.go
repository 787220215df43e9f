// internal/handlers/moderation.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/tapedeck/tapedeck-backend/internal/i18n"
	"github.com/tapedeck/tapedeck-backend/internal/services"
	"github.com/tapedeck/tapedeck-backend/internal/utils"
)

type ModerationHandler struct {
	submissionService *services.SubmissionService
}

func NewModerationHandler(submissionService *services.SubmissionService) *ModerationHandler {
	return &ModerationHandler{submissionService: submissionService}
}

// GET /moderation/queue
func (h *ModerationHandler) GetQueue(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	result, err := h.submissionService.GetModerationQueue(params)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.PaginatedResponse(c, *result)
}

// PUT /admin/variants/:id/approve
func (h *ModerationHandler) ApproveVariant(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	variantID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	variant, err := h.submissionService.ApproveVariant(variantID)
	if err != nil {
		respondServiceError(c, err, "variant")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyVariantApproved),
		"variant": variant,
	})
}

// DELETE /admin/variants/:id/reject (confirm=true)
func (h *ModerationHandler) RejectVariant(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	variantID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if !requireConfirmation(c) {
		return
	}

	if err := h.submissionService.RejectVariant(variantID); err != nil {
		respondServiceError(c, err, "variant")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyVariantRejected),
	})
}
