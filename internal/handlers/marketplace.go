// internal/handlers/marketplace.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/tapedeck/tapedeck-backend/internal/services"
	"github.com/tapedeck/tapedeck-backend/internal/utils"
)

type MarketplaceHandler struct {
	marketplaceService *services.MarketplaceService
}

func NewMarketplaceHandler(marketplaceService *services.MarketplaceService) *MarketplaceHandler {
	return &MarketplaceHandler{marketplaceService: marketplaceService}
}

// GET /marketplace/listings
func (h *MarketplaceHandler) GetListings(c *gin.Context) {
	result, err := h.marketplaceService.GetActiveListings(utils.GetPaginationParams(c))
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.PaginatedResponse(c, *result)
}
