// internal/models/marketplace.go
package models

import (
	"github.com/google/uuid"
)

// MarketplaceListing is a for-sale listing of a physical variant. Only the
// read path (active listings joined with master and variant) is served;
// listing creation and purchase are not part of this service.
type MarketplaceListing struct {
	BaseModel
	MasterReleaseID uuid.UUID     `json:"master_release_id" gorm:"type:uuid;not null;index"`
	VariantID       uuid.UUID     `json:"variant_id" gorm:"type:uuid;not null;index"`
	SellerID        uuid.UUID     `json:"seller_id" gorm:"type:uuid;not null;index"`
	Price           float64       `json:"price" gorm:"type:decimal(10,2);not null"`
	Currency        string        `json:"currency" gorm:"size:3;default:'USD'"`
	Condition       ItemCondition `json:"condition,omitempty" gorm:"type:varchar(20)"`
	Description     string        `json:"description" gorm:"type:text"`
	Active          bool          `json:"active" gorm:"default:true;index"`

	MasterRelease MasterRelease `json:"master_release,omitempty" gorm:"foreignKey:MasterReleaseID"`
	Variant       Variant       `json:"variant,omitempty" gorm:"foreignKey:VariantID"`
	Seller        User          `json:"seller,omitempty" gorm:"foreignKey:SellerID"`
}
