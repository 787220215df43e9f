// internal/services/marketplace_service.go
package services

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/tapedeck/tapedeck-backend/internal/models"
	"github.com/tapedeck/tapedeck-backend/internal/utils"
)

// MarketplaceService serves the read side of tape sales. Listing creation
// and checkout live elsewhere.
type MarketplaceService struct {
	db *gorm.DB
}

func NewMarketplaceService(db *gorm.DB) *MarketplaceService {
	return &MarketplaceService{db: db}
}

// GetActiveListings returns live listings joined with their master release,
// variant and seller, newest first.
func (s *MarketplaceService) GetActiveListings(params utils.PaginationParams) (*utils.PaginationResult, error) {
	query := s.db.Model(&models.MarketplaceListing{}).Where("active = ?", true)

	if params.Search != "" {
		search := "%" + params.Search + "%"
		query = query.
			Joins("JOIN master_releases ON master_releases.id = marketplace_listings.master_release_id").
			Where("LOWER(master_releases.title) LIKE LOWER(?)", search)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count listings: %w", err)
	}

	var listings []models.MarketplaceListing
	err := utils.ApplyPagination(query, params).
		Order("marketplace_listings.created_at DESC").
		Preload("MasterRelease").
		Preload("Variant.Images").
		Preload("Seller").
		Find(&listings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load listings: %w", err)
	}

	result := utils.CreatePaginationResult(listings, total, params)
	return &result, nil
}
