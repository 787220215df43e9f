// internal/services/collection_service.go
package services

import (
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tapedeck/tapedeck-backend/internal/database"
	"github.com/tapedeck/tapedeck-backend/internal/models"
	"github.com/tapedeck/tapedeck-backend/internal/utils"
)

// CollectionService is each member's personal ledger: owned tapes, wanted
// tapes, and title ratings.
type CollectionService struct {
	db *gorm.DB
}

func NewCollectionService(db *gorm.DB) *CollectionService {
	return &CollectionService{db: db}
}

type AddToCollectionRequest struct {
	VariantID uuid.UUID            `json:"variant_id" validate:"required"`
	Condition models.ItemCondition `json:"condition,omitempty"`
	Notes     string               `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

type ToggleWishlistRequest struct {
	VariantID uuid.UUID `json:"variant_id" validate:"required"`
}

type SetRatingRequest struct {
	Rating int `json:"rating" validate:"required,min=1,max=5"`
}

// AddToCollection records ownership of a variant. Adding a variant the user
// already owns refreshes condition and notes instead of duplicating the row.
func (s *CollectionService) AddToCollection(userID uuid.UUID, req *AddToCollectionRequest) (*models.CollectionEntry, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	if req.Condition != "" && !isValidCondition(req.Condition) {
		return nil, &FieldValidationError{Field: "condition", Message: "is not a recognized condition"}
	}

	variant, err := s.loadVariant(req.VariantID)
	if err != nil {
		return nil, err
	}

	entry := &models.CollectionEntry{
		UserID:          userID,
		MasterReleaseID: variant.MasterReleaseID,
		VariantID:       variant.ID,
		Condition:       req.Condition,
		Notes:           req.Notes,
	}

	err = s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "variant_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"condition", "notes", "updated_at"}),
	}).Create(entry).Error
	if err != nil {
		return nil, fmt.Errorf("failed to add to collection: %w", err)
	}

	// On conflict the original row survives with its own id, so reload fresh.
	var saved models.CollectionEntry
	if err := s.db.Preload("Variant.Images").Preload("MasterRelease").
		Where("user_id = ? AND variant_id = ?", userID, variant.ID).
		First(&saved).Error; err != nil {
		return nil, fmt.Errorf("failed to reload collection entry: %w", err)
	}
	return &saved, nil
}

func (s *CollectionService) RemoveFromCollection(userID, variantID uuid.UUID) error {
	// Hard delete: a soft-deleted row would still occupy the unique
	// (user, variant) slot and block re-adding the tape later.
	result := s.db.Unscoped().Where("user_id = ? AND variant_id = ?", userID, variantID).Delete(&models.CollectionEntry{})
	if result.Error != nil {
		return fmt.Errorf("failed to remove from collection: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("collection entry not found: %w", gorm.ErrRecordNotFound)
	}
	return nil
}

// ToggleWishlist flips wishlist membership for a variant and reports the
// resulting state: true when the variant is now wanted.
func (s *CollectionService) ToggleWishlist(userID uuid.UUID, req *ToggleWishlistRequest) (bool, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return false, fmt.Errorf("validation failed: %w", err)
	}

	variant, err := s.loadVariant(req.VariantID)
	if err != nil {
		return false, err
	}

	var existing models.WishlistEntry
	err = s.db.Where("user_id = ? AND variant_id = ?", userID, variant.ID).First(&existing).Error
	switch {
	case err == nil:
		if err := s.db.Unscoped().Delete(&existing).Error; err != nil {
			return false, fmt.Errorf("failed to remove from wishlist: %w", err)
		}
		return false, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		entry := &models.WishlistEntry{
			UserID:          userID,
			MasterReleaseID: variant.MasterReleaseID,
			VariantID:       variant.ID,
		}
		if err := s.db.Create(entry).Error; err != nil {
			return false, fmt.Errorf("failed to add to wishlist: %w", err)
		}
		return true, nil
	default:
		return false, fmt.Errorf("failed to look up wishlist entry: %w", err)
	}
}

// SetRating stores a member's 1-5 rating of a master release and recomputes
// the title's aggregate: mean rounded to one decimal plus the rating count,
// written in the same transaction as the upsert.
func (s *CollectionService) SetRating(userID, masterID uuid.UUID, req *SetRatingRequest) (*models.MasterRelease, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var master models.MasterRelease
	if err := s.db.First(&master, "id = ?", masterID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("release not found: %w", err)
		}
		return nil, fmt.Errorf("failed to load release: %w", err)
	}

	err := database.WithTransaction(s.db, func(tx *gorm.DB) error {
		rating := &models.Rating{
			UserID:          userID,
			MasterReleaseID: masterID,
			Rating:          req.Rating,
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "master_release_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"rating", "updated_at"}),
		}).Create(rating).Error; err != nil {
			return fmt.Errorf("failed to save rating: %w", err)
		}

		return recomputeRatingAggregate(tx, masterID)
	})
	if err != nil {
		return nil, err
	}

	if err := s.db.First(&master, "id = ?", masterID).Error; err != nil {
		return nil, fmt.Errorf("failed to reload release: %w", err)
	}
	return &master, nil
}

func recomputeRatingAggregate(tx *gorm.DB, masterID uuid.UUID) error {
	var stats struct {
		Avg   float64
		Count int64
	}
	err := tx.Model(&models.Rating{}).
		Select("COALESCE(AVG(rating), 0) AS avg, COUNT(*) AS count").
		Where("master_release_id = ?", masterID).
		Scan(&stats).Error
	if err != nil {
		return fmt.Errorf("failed to compute rating aggregate: %w", err)
	}

	return tx.Model(&models.MasterRelease{}).Where("id = ?", masterID).
		Updates(map[string]interface{}{
			"avg_rating":    math.Round(stats.Avg*10) / 10,
			"total_ratings": stats.Count,
		}).Error
}

func (s *CollectionService) GetCollection(userID uuid.UUID, params utils.PaginationParams) (*utils.PaginationResult, error) {
	query := s.db.Model(&models.CollectionEntry{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count collection: %w", err)
	}

	var entries []models.CollectionEntry
	err := utils.ApplyPagination(query, params).
		Order("created_at DESC").
		Preload("MasterRelease").
		Preload("Variant.Images").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load collection: %w", err)
	}

	result := utils.CreatePaginationResult(entries, total, params)
	return &result, nil
}

func (s *CollectionService) GetWishlist(userID uuid.UUID, params utils.PaginationParams) (*utils.PaginationResult, error) {
	query := s.db.Model(&models.WishlistEntry{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count wishlist: %w", err)
	}

	var entries []models.WishlistEntry
	err := utils.ApplyPagination(query, params).
		Order("created_at DESC").
		Preload("MasterRelease").
		Preload("Variant.Images").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load wishlist: %w", err)
	}

	result := utils.CreatePaginationResult(entries, total, params)
	return &result, nil
}

func (s *CollectionService) GetUserRatings(userID uuid.UUID, params utils.PaginationParams) (*utils.PaginationResult, error) {
	query := s.db.Model(&models.Rating{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count ratings: %w", err)
	}

	var ratings []models.Rating
	err := utils.ApplyPagination(query, params).
		Order("updated_at DESC").
		Preload("MasterRelease").
		Find(&ratings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load ratings: %w", err)
	}

	result := utils.CreatePaginationResult(ratings, total, params)
	return &result, nil
}

func (s *CollectionService) loadVariant(variantID uuid.UUID) (*models.Variant, error) {
	var variant models.Variant
	if err := s.db.First(&variant, "id = ?", variantID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("variant not found: %w", err)
		}
		return nil, fmt.Errorf("failed to load variant: %w", err)
	}
	return &variant, nil
}

func isValidCondition(condition models.ItemCondition) bool {
	switch condition {
	case models.ConditionMint, models.ConditionGood, models.ConditionFair,
		models.ConditionPoor, models.ConditionSealed:
		return true
	}
	return false
}
