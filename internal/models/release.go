// internal/models/release.go
package models

import (
	"github.com/google/uuid"
)

// MasterRelease is the canonical movie title record shared by all of its
// physical editions. AvgRating and TotalRatings are derived from Rating rows
// and rewritten by the collection service on every rating change.
type MasterRelease struct {
	BaseModel
	Title        string     `json:"title" gorm:"size:255;not null;index"`
	Director     string     `json:"director" gorm:"size:255"`
	Year         int        `json:"year" gorm:"index"`
	Genre        string     `json:"genre" gorm:"size:255"`
	Studio       string     `json:"studio" gorm:"size:255"`
	PosterURL    *string    `json:"poster_url" gorm:"size:512"`
	AvgRating    float64    `json:"avg_rating" gorm:"type:decimal(3,1);default:0"`
	TotalRatings int        `json:"total_ratings" gorm:"default:0"`
	CreatedBy    uuid.UUID  `json:"created_by" gorm:"type:uuid;not null;index"`

	// Relationships
	Creator  User      `json:"creator,omitempty" gorm:"foreignKey:CreatedBy"`
	Variants []Variant `json:"variants,omitempty" gorm:"foreignKey:MasterReleaseID"`

	// Populated by list queries, not a column.
	VariantCount int64 `json:"variant_count" gorm:"->;-:migration"`
}
