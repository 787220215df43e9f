// internal/services/submission_service.go
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/tapedeck/tapedeck-backend/internal/config"
	"github.com/tapedeck/tapedeck-backend/internal/database"
	"github.com/tapedeck/tapedeck-backend/internal/models"
	"github.com/tapedeck/tapedeck-backend/internal/utils"
)

// SubmissionService owns the community catalog write path: new titles and
// variants enter unapproved, votes move them through the queue, admins can
// short-circuit either way.
type SubmissionService struct {
	db      *gorm.DB
	storage ImageStore
	posters PosterLookup
	config  *config.Config
}

func NewSubmissionService(db *gorm.DB, storage ImageStore, posters PosterLookup, cfg *config.Config) *SubmissionService {
	return &SubmissionService{
		db:      db,
		storage: storage,
		posters: posters,
		config:  cfg,
	}
}

// FieldValidationError reports exactly which input field failed, so the
// response can point the submitter at it.
type FieldValidationError struct {
	Field   string
	Message string
}

func (e *FieldValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func fieldRequired(field string) error {
	return &FieldValidationError{Field: field, Message: "is required"}
}

// ImageUpload is one incoming image file bound to a variant slot.
type ImageUpload struct {
	Slot        int
	Data        []byte
	Filename    string
	ContentType string
}

type VariantFields struct {
	Format         models.VariantFormat `json:"format"`
	Region         string               `json:"region" validate:"omitempty,max=50"`
	ReleaseYear    int                  `json:"release_year" validate:"omitempty,min=1950,max=2030"`
	CaseType       models.CaseType      `json:"case_type"`
	Notes          string               `json:"notes"`
	Barcode        string               `json:"barcode" validate:"omitempty,barcode"`
	EditionType    string               `json:"edition_type" validate:"omitempty,max=100"`
	AudioLanguage  string               `json:"audio_language" validate:"omitempty,max=50"`
	Subtitles      models.Subtitles     `json:"subtitles"`
	OriginalRating string               `json:"original_rating" validate:"omitempty,max=20"`
	AspectRatio    string               `json:"aspect_ratio" validate:"omitempty,max=20"`
	ShellColor     string               `json:"shell_color" validate:"omitempty,max=30"`
}

type SubmitTitleRequest struct {
	Title    string `json:"title" validate:"required,min=1,max=255"`
	Year     int    `json:"year" validate:"omitempty,min=1900,max=2100"`
	Director string `json:"director" validate:"omitempty,max=255"`
	Studio   string `json:"studio" validate:"omitempty,max=255"`
	Genre    string `json:"genre" validate:"omitempty,max=255"`
	Variant  VariantFields
}

type UpdateMasterRequest struct {
	Title    string  `json:"title" validate:"omitempty,min=1,max=255"`
	Year     *int    `json:"year" validate:"omitempty,min=1900,max=2100"`
	Director *string `json:"director"`
	Studio   *string `json:"studio"`
	Genre    *string `json:"genre"`
}

// SubmitTitle creates a brand-new master release together with its first
// variant and image set. Poster art is resolved through the metadata lookup;
// a lookup failure just means no poster.
func (s *SubmissionService) SubmitTitle(ctx context.Context, userID uuid.UUID, req *SubmitTitleRequest, images []ImageUpload) (*models.MasterRelease, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	if err := validateVariantFields(&req.Variant); err != nil {
		return nil, err
	}
	if err := requireNewSubmissionImages(images); err != nil {
		return nil, err
	}

	var posterURL *string
	if s.posters != nil {
		if url, err := s.posters.LookupPoster(ctx, req.Title, req.Year); err != nil {
			logrus.WithError(err).WithField("title", req.Title).Warn("Poster lookup failed, submitting without poster")
		} else if url != "" {
			posterURL = &url
		}
	}

	uploaded, err := s.uploadImages(images)
	if err != nil {
		return nil, err
	}

	master := &models.MasterRelease{
		Title:     req.Title,
		Director:  req.Director,
		Year:      req.Year,
		Genre:     req.Genre,
		Studio:    req.Studio,
		PosterURL: posterURL,
		CreatedBy: userID,
	}

	err = database.WithTransaction(s.db, func(tx *gorm.DB) error {
		if err := tx.Create(master).Error; err != nil {
			return fmt.Errorf("failed to create release: %w", err)
		}

		variant := buildVariant(master.ID, userID, &req.Variant)
		if err := tx.Create(variant).Error; err != nil {
			return fmt.Errorf("failed to create variant: %w", err)
		}

		return insertImageRows(tx, variant.ID, uploaded)
	})
	if err != nil {
		s.discardUploads(uploaded)
		return nil, err
	}

	s.db.Preload("Variants.Images").First(master, master.ID)
	return master, nil
}

// SubmitVariant adds another physical edition to an existing master. Same
// field and image rules as a new title, no poster lookup.
func (s *SubmissionService) SubmitVariant(userID, masterID uuid.UUID, fields *VariantFields, images []ImageUpload) (*models.Variant, error) {
	if err := utils.ValidateStruct(fields); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	if err := validateVariantFields(fields); err != nil {
		return nil, err
	}
	if err := requireNewSubmissionImages(images); err != nil {
		return nil, err
	}

	var master models.MasterRelease
	if err := s.db.First(&master, "id = ?", masterID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("release not found: %w", err)
		}
		return nil, fmt.Errorf("failed to load release: %w", err)
	}

	uploaded, err := s.uploadImages(images)
	if err != nil {
		return nil, err
	}

	variant := buildVariant(master.ID, userID, fields)
	err = database.WithTransaction(s.db, func(tx *gorm.DB) error {
		if err := tx.Create(variant).Error; err != nil {
			return fmt.Errorf("failed to create variant: %w", err)
		}
		return insertImageRows(tx, variant.ID, uploaded)
	})
	if err != nil {
		s.discardUploads(uploaded)
		return nil, err
	}

	s.db.Preload("Images").First(variant, variant.ID)
	return variant, nil
}

// UpdateMaster edits the shared title record. The poster is re-resolved from
// the (possibly changed) title and year; if the lookup fails the previous
// poster stays.
func (s *SubmissionService) UpdateMaster(ctx context.Context, masterID uuid.UUID, req *UpdateMasterRequest) (*models.MasterRelease, error) {
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

	if req.Title != "" {
		master.Title = req.Title
	}
	if req.Year != nil {
		master.Year = *req.Year
	}
	if req.Director != nil {
		master.Director = *req.Director
	}
	if req.Studio != nil {
		master.Studio = *req.Studio
	}
	if req.Genre != nil {
		master.Genre = *req.Genre
	}

	if s.posters != nil {
		if url, err := s.posters.LookupPoster(ctx, master.Title, master.Year); err != nil {
			logrus.WithError(err).WithField("title", master.Title).Warn("Poster lookup failed, keeping previous poster")
		} else if url != "" {
			master.PosterURL = &url
		}
	}

	if err := s.db.Save(&master).Error; err != nil {
		return nil, fmt.Errorf("failed to update release: %w", err)
	}

	return &master, nil
}

// UpdateVariant edits a variant's descriptive fields. Approval state and vote
// counters are never written here. Any image slot supplied replaces that
// slot's existing image: old object and row go first, then the new upload.
func (s *SubmissionService) UpdateVariant(variantID uuid.UUID, fields *VariantFields, images []ImageUpload) (*models.Variant, error) {
	if err := utils.ValidateStruct(fields); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	if err := validateVariantFields(fields); err != nil {
		return nil, err
	}
	for _, img := range images {
		if err := validateImageSlot(img.Slot); err != nil {
			return nil, err
		}
	}

	var variant models.Variant
	if err := s.db.First(&variant, "id = ?", variantID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("variant not found: %w", err)
		}
		return nil, fmt.Errorf("failed to load variant: %w", err)
	}

	updates := map[string]interface{}{
		"format":          fields.Format,
		"region":          fields.Region,
		"release_year":    fields.ReleaseYear,
		"case_type":       fields.CaseType,
		"notes":           fields.Notes,
		"barcode":         fields.Barcode,
		"edition_type":    fields.EditionType,
		"audio_language":  fields.AudioLanguage,
		"subtitles":       fields.Subtitles,
		"original_rating": fields.OriginalRating,
		"aspect_ratio":    fields.AspectRatio,
		"shell_color":     fields.ShellColor,
	}
	if err := s.db.Model(&variant).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update variant: %w", err)
	}

	for _, img := range images {
		if err := s.replaceImageSlot(&variant, img); err != nil {
			return nil, err
		}
	}

	s.db.Preload("Images").First(&variant, variant.ID)
	return &variant, nil
}

func (s *SubmissionService) replaceImageSlot(variant *models.Variant, img ImageUpload) error {
	var existing models.VariantImage
	err := s.db.Where("variant_id = ? AND image_order = ?", variant.ID, img.Slot).First(&existing).Error
	switch {
	case err == nil:
		if removeErr := s.storage.Remove(existing.ImageURL); removeErr != nil {
			logrus.WithError(removeErr).WithField("image_url", existing.ImageURL).Warn("Failed to delete replaced image object")
		}
		if err := s.db.Unscoped().Delete(&existing).Error; err != nil {
			return fmt.Errorf("failed to remove replaced image: %w", err)
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		// Slot was empty, nothing to replace.
	default:
		return fmt.Errorf("failed to look up image slot: %w", err)
	}

	imageURL, err := s.storage.Upload(img.Data, img.Filename, img.ContentType)
	if err != nil {
		return fmt.Errorf("failed to upload image: %w", err)
	}

	row := &models.VariantImage{
		VariantID:  variant.ID,
		ImageURL:   imageURL,
		ImageOrder: img.Slot,
	}
	if err := s.db.Create(row).Error; err != nil {
		return fmt.Errorf("failed to save image record: %w", err)
	}

	return nil
}

// CastVote records one user's trust signal on a variant. A fresh vote is
// inserted, a repeat of the same side toggles the vote off, and the opposite
// side flips the existing row. Counters are recomputed afterwards.
func (s *SubmissionService) CastVote(variantID, userID uuid.UUID, voteType models.VoteType) (*models.Variant, error) {
	if voteType != models.VoteTypeUp && voteType != models.VoteTypeDown {
		return nil, &FieldValidationError{Field: "vote_type", Message: "must be 'up' or 'down'"}
	}

	var variant models.Variant
	if err := s.db.First(&variant, "id = ?", variantID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("variant not found: %w", err)
		}
		return nil, fmt.Errorf("failed to load variant: %w", err)
	}

	var existing models.SubmissionVote
	err := s.db.Where("user_id = ? AND variant_id = ?", userID, variantID).First(&existing).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		vote := &models.SubmissionVote{
			UserID:    userID,
			VariantID: variantID,
			VoteType:  voteType,
		}
		if err := s.db.Create(vote).Error; err != nil {
			return nil, fmt.Errorf("failed to record vote: %w", err)
		}
	case err != nil:
		return nil, fmt.Errorf("failed to look up existing vote: %w", err)
	case existing.VoteType == voteType:
		if err := s.db.Unscoped().Delete(&existing).Error; err != nil {
			return nil, fmt.Errorf("failed to withdraw vote: %w", err)
		}
	default:
		if err := s.db.Model(&existing).Update("vote_type", voteType).Error; err != nil {
			return nil, fmt.Errorf("failed to switch vote: %w", err)
		}
	}

	if err := s.RecountVotes(variantID); err != nil {
		return nil, err
	}

	if err := s.db.First(&variant, "id = ?", variantID).Error; err != nil {
		return nil, fmt.Errorf("failed to reload variant: %w", err)
	}
	return &variant, nil
}

// RecountVotes rewrites a variant's vote counters from the vote rows and
// auto-approves once upvotes reach the configured threshold. Counting and the
// approval flip happen in one transaction; an already-approved variant is
// never flipped back.
func (s *SubmissionService) RecountVotes(variantID uuid.UUID) error {
	threshold := int64(s.config.Moderation.AutoApproveVotes)

	return database.WithTransaction(s.db, func(tx *gorm.DB) error {
		var votesUp, votesDown int64
		if err := tx.Model(&models.SubmissionVote{}).
			Where("variant_id = ? AND vote_type = ?", variantID, models.VoteTypeUp).
			Count(&votesUp).Error; err != nil {
			return fmt.Errorf("failed to count upvotes: %w", err)
		}
		if err := tx.Model(&models.SubmissionVote{}).
			Where("variant_id = ? AND vote_type = ?", variantID, models.VoteTypeDown).
			Count(&votesDown).Error; err != nil {
			return fmt.Errorf("failed to count downvotes: %w", err)
		}

		if err := tx.Model(&models.Variant{}).Where("id = ?", variantID).
			Updates(map[string]interface{}{
				"votes_up":   votesUp,
				"votes_down": votesDown,
			}).Error; err != nil {
			return fmt.Errorf("failed to update vote counters: %w", err)
		}

		if votesUp >= threshold {
			// Guarded write: only flips pending variants, so approval is
			// monotonic even under concurrent recounts.
			if err := tx.Model(&models.Variant{}).
				Where("id = ? AND approved = ?", variantID, false).
				Update("approved", true).Error; err != nil {
				return fmt.Errorf("failed to auto-approve variant: %w", err)
			}
		}

		return nil
	})
}

// ApproveVariant is the admin shortcut past the vote threshold.
func (s *SubmissionService) ApproveVariant(variantID uuid.UUID) (*models.Variant, error) {
	result := s.db.Model(&models.Variant{}).Where("id = ?", variantID).Update("approved", true)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to approve variant: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, fmt.Errorf("variant not found: %w", gorm.ErrRecordNotFound)
	}

	var variant models.Variant
	if err := s.db.Preload("Images").First(&variant, "id = ?", variantID).Error; err != nil {
		return nil, fmt.Errorf("failed to reload variant: %w", err)
	}
	return &variant, nil
}

// RejectVariant removes a pending submission and purges its images. Object
// deletes are best-effort: a storage failure is logged and the catalog rows
// are removed regardless.
func (s *SubmissionService) RejectVariant(variantID uuid.UUID) error {
	var variant models.Variant
	if err := s.db.Preload("Images").First(&variant, "id = ?", variantID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("variant not found: %w", err)
		}
		return fmt.Errorf("failed to load variant: %w", err)
	}
	if variant.Approved {
		return errors.New("only pending variants can be rejected")
	}

	return s.deleteVariantRecords(&variant)
}

// DeleteVariant removes an approved variant with the same image purge
// protocol as a rejection.
func (s *SubmissionService) DeleteVariant(variantID uuid.UUID) error {
	var variant models.Variant
	if err := s.db.Preload("Images").First(&variant, "id = ?", variantID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("variant not found: %w", err)
		}
		return fmt.Errorf("failed to load variant: %w", err)
	}

	return s.deleteVariantRecords(&variant)
}

// DeleteMaster removes a master release and everything under it: every
// variant's images are purged best-effort, then variants, votes and the
// master row go in one transaction.
func (s *SubmissionService) DeleteMaster(masterID uuid.UUID) error {
	var master models.MasterRelease
	if err := s.db.Preload("Variants.Images").First(&master, "id = ?", masterID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("release not found: %w", err)
		}
		return fmt.Errorf("failed to load release: %w", err)
	}

	for _, variant := range master.Variants {
		s.purgeImageObjects(variant.Images)
	}

	return database.WithTransaction(s.db, func(tx *gorm.DB) error {
		variantIDs := make([]uuid.UUID, 0, len(master.Variants))
		for _, variant := range master.Variants {
			variantIDs = append(variantIDs, variant.ID)
		}

		if len(variantIDs) > 0 {
			if err := tx.Where("variant_id IN ?", variantIDs).Delete(&models.VariantImage{}).Error; err != nil {
				return fmt.Errorf("failed to delete image records: %w", err)
			}
			if err := tx.Where("variant_id IN ?", variantIDs).Delete(&models.SubmissionVote{}).Error; err != nil {
				return fmt.Errorf("failed to delete vote records: %w", err)
			}
			if err := tx.Where("master_release_id = ?", master.ID).Delete(&models.Variant{}).Error; err != nil {
				return fmt.Errorf("failed to delete variants: %w", err)
			}
		}

		if err := tx.Delete(&master).Error; err != nil {
			return fmt.Errorf("failed to delete release: %w", err)
		}
		return nil
	})
}

func (s *SubmissionService) deleteVariantRecords(variant *models.Variant) error {
	s.purgeImageObjects(variant.Images)

	return database.WithTransaction(s.db, func(tx *gorm.DB) error {
		if err := tx.Where("variant_id = ?", variant.ID).Delete(&models.VariantImage{}).Error; err != nil {
			return fmt.Errorf("failed to delete image records: %w", err)
		}
		if err := tx.Where("variant_id = ?", variant.ID).Delete(&models.SubmissionVote{}).Error; err != nil {
			return fmt.Errorf("failed to delete vote records: %w", err)
		}
		if err := tx.Delete(variant).Error; err != nil {
			return fmt.Errorf("failed to delete variant: %w", err)
		}
		return nil
	})
}

func (s *SubmissionService) purgeImageObjects(images []models.VariantImage) {
	for _, image := range images {
		if err := s.storage.Remove(image.ImageURL); err != nil {
			logrus.WithError(err).WithField("image_url", image.ImageURL).Warn("Failed to delete image object during purge")
		}
	}
}

// GetModerationQueue lists pending variants oldest first so long-waiting
// submissions surface at the top.
func (s *SubmissionService) GetModerationQueue(params utils.PaginationParams) (*utils.PaginationResult, error) {
	query := s.db.Model(&models.Variant{}).Where("approved = ?", false)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count pending variants: %w", err)
	}

	var variants []models.Variant
	err := utils.ApplyPagination(query, params).
		Order("created_at ASC").
		Preload("MasterRelease").
		Preload("Images").
		Preload("Submitter").
		Find(&variants).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load moderation queue: %w", err)
	}

	result := utils.CreatePaginationResult(variants, total, params)
	return &result, nil
}

// GetMaster returns one master with its approved variants, newest edition
// first, images included.
func (s *SubmissionService) GetMaster(masterID uuid.UUID) (*models.MasterRelease, error) {
	var master models.MasterRelease
	err := s.db.
		Preload("Variants", func(db *gorm.DB) *gorm.DB {
			return db.Where("approved = ?", true).Order("release_year DESC")
		}).
		Preload("Variants.Images").
		First(&master, "id = ?", masterID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("release not found: %w", err)
		}
		return nil, fmt.Errorf("failed to load release: %w", err)
	}

	return &master, nil
}

// ListVariants returns a master's variants ordered by release year, newest
// first. Pending variants are included only when approvedOnly is false.
func (s *SubmissionService) ListVariants(masterID uuid.UUID, approvedOnly bool) ([]models.Variant, error) {
	query := s.db.Where("master_release_id = ?", masterID)
	if approvedOnly {
		query = query.Where("approved = ?", true)
	}

	var variants []models.Variant
	if err := query.Order("release_year DESC").Preload("Images").Find(&variants).Error; err != nil {
		return nil, fmt.Errorf("failed to load variants: %w", err)
	}
	return variants, nil
}

// ListMasters is the catalog browse query: title search, pagination, and an
// approved-variant count per master.
func (s *SubmissionService) ListMasters(params utils.PaginationParams) (*utils.PaginationResult, error) {
	query := s.db.Model(&models.MasterRelease{})

	if params.Search != "" {
		search := "%" + params.Search + "%"
		query = query.Where("LOWER(title) LIKE LOWER(?) OR LOWER(director) LIKE LOWER(?)", search, search)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count releases: %w", err)
	}

	var masters []models.MasterRelease
	err := utils.ApplySort(utils.ApplyPagination(query, params), params, []string{"created_at", "title", "year", "avg_rating"}).
		Select("master_releases.*, (SELECT COUNT(*) FROM variants WHERE variants.master_release_id = master_releases.id AND variants.approved = ? AND variants.deleted_at IS NULL) AS variant_count", true).
		Find(&masters).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load releases: %w", err)
	}

	result := utils.CreatePaginationResult(masters, total, params)
	return &result, nil
}

func (s *SubmissionService) uploadImages(images []ImageUpload) ([]models.VariantImage, error) {
	uploaded := make([]models.VariantImage, 0, len(images))
	for _, img := range images {
		url, err := s.storage.Upload(img.Data, img.Filename, img.ContentType)
		if err != nil {
			s.discardUploads(uploaded)
			return nil, fmt.Errorf("failed to upload image for slot %d: %w", img.Slot, err)
		}
		uploaded = append(uploaded, models.VariantImage{
			ImageURL:   url,
			ImageOrder: img.Slot,
		})
	}
	return uploaded, nil
}

func (s *SubmissionService) discardUploads(uploaded []models.VariantImage) {
	for _, image := range uploaded {
		if err := s.storage.Remove(image.ImageURL); err != nil {
			logrus.WithError(err).WithField("image_url", image.ImageURL).Warn("Failed to clean up orphaned upload")
		}
	}
}

func insertImageRows(tx *gorm.DB, variantID uuid.UUID, uploaded []models.VariantImage) error {
	for i := range uploaded {
		uploaded[i].VariantID = variantID
		if err := tx.Create(&uploaded[i]).Error; err != nil {
			return fmt.Errorf("failed to save image record: %w", err)
		}
	}
	return nil
}

func buildVariant(masterID, userID uuid.UUID, fields *VariantFields) *models.Variant {
	return &models.Variant{
		MasterReleaseID: masterID,
		Format:          fields.Format,
		Region:          fields.Region,
		ReleaseYear:     fields.ReleaseYear,
		CaseType:        fields.CaseType,
		Notes:           fields.Notes,
		Barcode:         fields.Barcode,
		EditionType:     fields.EditionType,
		AudioLanguage:   fields.AudioLanguage,
		Subtitles:       fields.Subtitles,
		OriginalRating:  fields.OriginalRating,
		AspectRatio:     fields.AspectRatio,
		ShellColor:      fields.ShellColor,
		Approved:        false,
		SubmittedBy:     userID,
	}
}

func validateVariantFields(fields *VariantFields) error {
	if fields.Region == "" {
		return fieldRequired("region")
	}
	if fields.CaseType == "" {
		return fieldRequired("case_type")
	}

	switch fields.CaseType {
	case models.CaseTypeSlipcase, models.CaseTypeClamshell, models.CaseTypeBigBox,
		models.CaseTypeCardboard, models.CaseTypeJewelCase, models.CaseTypeOther:
	default:
		return &FieldValidationError{Field: "case_type", Message: "is not a recognized case type"}
	}

	if fields.Format == "" {
		fields.Format = models.FormatVHS
	}
	switch fields.Format {
	case models.FormatVHS, models.FormatBetamax, models.FormatVideoCD:
	default:
		return &FieldValidationError{Field: "format", Message: "is not a recognized format"}
	}

	if fields.Subtitles == "" {
		fields.Subtitles = models.SubtitlesUnknown
	}

	return nil
}

func requireNewSubmissionImages(images []ImageUpload) error {
	slots := make(map[int]bool, len(images))
	for _, img := range images {
		if err := validateImageSlot(img.Slot); err != nil {
			return err
		}
		slots[img.Slot] = true
	}

	if !slots[models.ImageSlotCover] {
		return fieldRequired("cover_image")
	}
	if !slots[models.ImageSlotBack] {
		return fieldRequired("back_image")
	}
	return nil
}

func validateImageSlot(slot int) error {
	if slot < models.ImageSlotCover || slot > models.ImageSlotTapeLabel {
		return &FieldValidationError{Field: "image_slot", Message: "must be between 0 (cover) and 3 (tape label)"}
	}
	return nil
}
