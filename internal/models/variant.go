// internal/models/variant.go
package models

import (
	"github.com/google/uuid"
)

// Variant is one specific physical edition of a master release. It enters the
// system unapproved and is only visible in curated views once Approved is true;
// until then it sits in the moderation queue. VotesUp/VotesDown are derived
// from SubmissionVote rows by the recount step.
type Variant struct {
	BaseModel
	MasterReleaseID uuid.UUID     `json:"master_release_id" gorm:"type:uuid;not null;index"`
	Format          VariantFormat `json:"format" gorm:"type:varchar(20);default:'VHS';not null"`
	Region          string        `json:"region" gorm:"size:50;not null"`
	ReleaseYear     int           `json:"release_year" gorm:"index"`
	CaseType        CaseType      `json:"case_type" gorm:"type:varchar(30);not null"`
	Notes           string        `json:"notes" gorm:"type:text"`
	Barcode         string        `json:"barcode" gorm:"size:50"`
	EditionType     string        `json:"edition_type" gorm:"size:100"`
	AudioLanguage   string        `json:"audio_language" gorm:"size:50"`
	Subtitles       Subtitles     `json:"subtitles" gorm:"type:varchar(10);default:'unknown'"`
	OriginalRating  string        `json:"original_rating" gorm:"size:20"`
	AspectRatio     string        `json:"aspect_ratio" gorm:"size:20"`
	ShellColor      string        `json:"shell_color" gorm:"size:30"`
	Approved        bool          `json:"approved" gorm:"default:false;index"`
	VotesUp         int           `json:"votes_up" gorm:"default:0"`
	VotesDown       int           `json:"votes_down" gorm:"default:0"`
	SubmittedBy     uuid.UUID     `json:"submitted_by" gorm:"type:uuid;not null;index"`

	// Relationships
	MasterRelease MasterRelease    `json:"master_release,omitempty" gorm:"foreignKey:MasterReleaseID"`
	Submitter     User             `json:"submitter,omitempty" gorm:"foreignKey:SubmittedBy"`
	Images        []VariantImage   `json:"images,omitempty" gorm:"foreignKey:VariantID"`
	Votes         []SubmissionVote `json:"votes,omitempty" gorm:"foreignKey:VariantID"`
}

// VariantImage is one object-store image attached to a variant slot
// (0 cover, 1 back, 2 spine, 3 tape label). Replacing a slot deletes the old
// object and row before the new one is inserted, so a (variant, order) pair
// never has more than one live image.
type VariantImage struct {
	BaseModel
	VariantID  uuid.UUID `json:"variant_id" gorm:"type:uuid;not null;index:idx_variant_images_slot"`
	ImageURL   string    `json:"image_url" gorm:"size:512;not null"`
	ImageOrder int       `json:"image_order" gorm:"not null;index:idx_variant_images_slot"`

	Variant Variant `json:"-" gorm:"foreignKey:VariantID"`
}

// SubmissionVote is a community trust signal on a pending variant. The unique
// index enforces at most one vote per (user, variant); switching sides updates
// the row, repeating the same side deletes it.
type SubmissionVote struct {
	BaseModel
	UserID    uuid.UUID `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_submission_votes_user_variant"`
	VariantID uuid.UUID `json:"variant_id" gorm:"type:uuid;not null;uniqueIndex:idx_submission_votes_user_variant"`
	VoteType  VoteType  `json:"vote_type" gorm:"type:varchar(10);not null"`

	User    User    `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Variant Variant `json:"-" gorm:"foreignKey:VariantID"`
}
