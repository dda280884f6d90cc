package models

import "gorm.io/gorm"

// Category is a lookup table for item categories (Tops, Dresses, Shoes, …).
type Category struct {
	gorm.Model
	Name string `gorm:"uniqueIndex;size:100;not null" json:"name"`
}
