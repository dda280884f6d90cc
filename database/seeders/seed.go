package seeders

import (
	"github.com/rewearhq/rewear/app/models"
	"github.com/rewearhq/rewear/config"
	"github.com/rewearhq/rewear/pkg/auth"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func init() {
	Register("categories", SeedCategories)
	Register("admin", SeedAdmin)
}

// SeedCategories inserts the default clothing categories. Re-running is safe:
// existing names are skipped.
func SeedCategories(db *gorm.DB) error {
	names := []string{
		"Tops", "Bottoms", "Dresses", "Outerwear",
		"Footwear", "Accessories", "Activewear", "Kids",
	}
	cats := make([]models.Category, 0, len(names))
	for _, n := range names {
		cats = append(cats, models.Category{Name: n})
	}
	return db.Clauses(clause.OnConflict{DoNothing: true}).Create(&cats).Error
}

// SeedAdmin creates the bootstrap admin account. Credentials come from
// ADMIN_EMAIL / ADMIN_PASSWORD; nothing happens when they are unset or the
// account already exists.
func SeedAdmin(db *gorm.DB) error {
	email := config.Get("ADMIN_EMAIL", "")
	password := config.Get("ADMIN_PASSWORD", "")
	if email == "" || password == "" {
		return nil
	}

	var count int64
	if err := db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	return db.Create(&models.User{
		FullName: "Administrator",
		Email:    email,
		Password: hash,
		Role:     models.RoleAdmin,
	}).Error
}
