// internal/models/collection.go
package models

import (
	"github.com/google/uuid"
)

// CollectionEntry marks a variant as owned by a user. The (user, variant)
// unique index plus an upsert on insert keeps double-clicks from producing
// duplicate rows.
type CollectionEntry struct {
	BaseModel
	UserID          uuid.UUID     `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_collection_user_variant"`
	MasterReleaseID uuid.UUID     `json:"master_release_id" gorm:"type:uuid;not null;index"`
	VariantID       uuid.UUID     `json:"variant_id" gorm:"type:uuid;not null;uniqueIndex:idx_collection_user_variant"`
	Condition       ItemCondition `json:"condition,omitempty" gorm:"type:varchar(20)"`
	Notes           string        `json:"notes" gorm:"type:text"`

	MasterRelease MasterRelease `json:"master_release,omitempty" gorm:"foreignKey:MasterReleaseID"`
	Variant       Variant       `json:"variant,omitempty" gorm:"foreignKey:VariantID"`
}

// WishlistEntry marks a variant as wanted. Presence-only.
type WishlistEntry struct {
	BaseModel
	UserID          uuid.UUID `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_wishlist_user_variant"`
	MasterReleaseID uuid.UUID `json:"master_release_id" gorm:"type:uuid;not null;index"`
	VariantID       uuid.UUID `json:"variant_id" gorm:"type:uuid;not null;uniqueIndex:idx_wishlist_user_variant"`

	MasterRelease MasterRelease `json:"master_release,omitempty" gorm:"foreignKey:MasterReleaseID"`
	Variant       Variant       `json:"variant,omitempty" gorm:"foreignKey:VariantID"`
}

// Rating is a 1-5 star rating of a master release. One per (user, master);
// the aggregate on MasterRelease is recomputed after every change.
type Rating struct {
	BaseModel
	UserID          uuid.UUID `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_ratings_user_master"`
	MasterReleaseID uuid.UUID `json:"master_release_id" gorm:"type:uuid;not null;uniqueIndex:idx_ratings_user_master"`
	Rating          int       `json:"rating" gorm:"not null"`

	MasterRelease MasterRelease `json:"-" gorm:"foreignKey:MasterReleaseID"`
}
