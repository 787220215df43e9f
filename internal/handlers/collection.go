// internal/handlers/collection.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/tapedeck/tapedeck-backend/internal/i18n"
	"github.com/tapedeck/tapedeck-backend/internal/services"
	"github.com/tapedeck/tapedeck-backend/internal/utils"
)

type CollectionHandler struct {
	collectionService *services.CollectionService
}

func NewCollectionHandler(collectionService *services.CollectionService) *CollectionHandler {
	return &CollectionHandler{collectionService: collectionService}
}

// POST /collection
func (h *CollectionHandler) AddToCollection(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.AddToCollectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	entry, err := h.collectionService.AddToCollection(userID, &req)
	if err != nil {
		respondServiceError(c, err, "variant")
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyCollectionAdded),
		"entry":   entry,
	})
}

// DELETE /collection/:variantID
func (h *CollectionHandler) RemoveFromCollection(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	variantID, ok := parseIDParam(c, "variantID")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := h.collectionService.RemoveFromCollection(userID, variantID); err != nil {
		respondServiceError(c, err, "collection")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyCollectionRemoved),
	})
}

// GET /collection
func (h *CollectionHandler) GetCollection(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	result, err := h.collectionService.GetCollection(userID, utils.GetPaginationParams(c))
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.PaginatedResponse(c, *result)
}

// POST /wishlist/toggle
func (h *CollectionHandler) ToggleWishlist(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.ToggleWishlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	wanted, err := h.collectionService.ToggleWishlist(userID, &req)
	if err != nil {
		respondServiceError(c, err, "variant")
		return
	}

	messageKey := i18n.KeyWishlistRemoved
	if wanted {
		messageKey = i18n.KeyWishlistAdded
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, messageKey),
		"wanted":  wanted,
	})
}

// GET /wishlist
func (h *CollectionHandler) GetWishlist(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	result, err := h.collectionService.GetWishlist(userID, utils.GetPaginationParams(c))
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.PaginatedResponse(c, *result)
}

// GET /ratings
func (h *CollectionHandler) GetRatings(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	result, err := h.collectionService.GetUserRatings(userID, utils.GetPaginationParams(c))
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.PaginatedResponse(c, *result)
}
