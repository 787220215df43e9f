// internal/models/common.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// IDs are assigned application-side so the same models work against
// Postgres in production and SQLite in tests.
func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// JSONB type for PostgreSQL
type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}

	return json.Unmarshal(bytes, j)
}

// Enums
type UserType string

const (
	UserTypeMember UserType = "member"
	UserTypeAdmin  UserType = "admin"
)

type UserStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"
	UserStatusBanned    UserStatus = "banned"
)

type VariantFormat string

const (
	FormatVHS     VariantFormat = "VHS"
	FormatBetamax VariantFormat = "Betamax"
	FormatVideoCD VariantFormat = "Video CD"
)

type CaseType string

const (
	CaseTypeSlipcase  CaseType = "slipcase"
	CaseTypeClamshell CaseType = "clamshell"
	CaseTypeBigBox    CaseType = "big_box"
	CaseTypeCardboard CaseType = "cardboard_sleeve"
	CaseTypeJewelCase CaseType = "jewel_case"
	CaseTypeOther     CaseType = "other"
)

type VoteType string

const (
	VoteTypeUp   VoteType = "up"
	VoteTypeDown VoteType = "down"
)

type Subtitles string

const (
	SubtitlesYes     Subtitles = "yes"
	SubtitlesNo      Subtitles = "no"
	SubtitlesUnknown Subtitles = "unknown"
)

type ItemCondition string

const (
	ConditionMint   ItemCondition = "mint"
	ConditionGood   ItemCondition = "good"
	ConditionFair   ItemCondition = "fair"
	ConditionPoor   ItemCondition = "poor"
	ConditionSealed ItemCondition = "sealed"
)

// Image slot indexes on a variant. At most one live image per slot.
const (
	ImageSlotCover     = 0
	ImageSlotBack      = 1
	ImageSlotSpine     = 2
	ImageSlotTapeLabel = 3
)
