// internal/models/product.go
package models

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Product is long-lived shared catalog data. Price is kept as an exact
// decimal string; arithmetic happens in integer cents (utils/money.go),
// never in binary floats. CategoryID is nullable: a product whose category
// was deleted keeps existing and still appears in lookups.
type Product struct {
	BaseModel
	Slug           string         `json:"slug" gorm:"uniqueIndex;size:100;not null"`
	Name           string         `json:"name" gorm:"size:255;not null"`
	Description    string         `json:"description" gorm:"type:text"`
	Price          string         `json:"price" gorm:"type:decimal(10,2);not null"`
	Stock          int            `json:"stock" gorm:"default:0"`
	IsActive       bool           `json:"is_active" gorm:"default:true;index"`
	CategoryID     *uuid.UUID     `json:"category_id" gorm:"type:uuid;index"`
	Brand          string         `json:"brand" gorm:"size:100"`
	Region         string         `json:"region" gorm:"size:100;index"`
	Volume         string         `json:"volume" gorm:"size:50"`
	AlcoholContent string         `json:"alcohol_content" gorm:"size:50"`
	ImageURL       string         `json:"image_url" gorm:"size:512"`
	Images         pq.StringArray `json:"images" gorm:"type:text[]"`

	Category *Category `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
}
