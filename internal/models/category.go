// internal/models/category.go
package models

type Category struct {
	BaseModel
	Slug string `json:"slug" gorm:"uniqueIndex;size:100;not null"`
	Name string `json:"name" gorm:"size:100;not null"`
}
