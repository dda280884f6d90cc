package services_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/rewearhq/rewear/app/models"
	"github.com/rewearhq/rewear/app/services"
	"github.com/rewearhq/rewear/pkg/database"
)

// ─── Test database ────────────────────────────────────────────────────────────

// setupDB points the global connection at a fresh in-memory SQLite database.
// The named shared-cache DSN keeps the schema visible across pooled
// connections for the lifetime of the test.
func setupDB(t *testing.T) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Item{},
		&models.ItemImage{},
		&models.ItemTag{},
		&models.Swap{},
		&models.PointsTransaction{},
		&models.Redemption{},
		&models.Message{},
	))

	prev := database.DB
	database.DB = db
	t.Cleanup(func() {
		database.DB = prev
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
	})
}

// ─── Fixtures ─────────────────────────────────────────────────────────────────

func mustUser(t *testing.T, email, role string, balance int) models.User {
	t.Helper()
	u := models.User{
		FullName:      "Test User",
		Email:         email,
		Password:      "irrelevant",
		Role:          role,
		PointsBalance: balance,
	}
	require.NoError(t, database.DB.Create(&u).Error)
	return u
}

func mustItem(t *testing.T, ownerID uint, cost int, approved bool, status string) models.Item {
	t.Helper()
	i := models.Item{
		OwnerID:     ownerID,
		Title:       "Denim Jacket",
		Description: "Lightly worn",
		Condition:   models.ConditionGood,
		PointCost:   cost,
		Status:      status,
		IsApproved:  approved,
	}
	require.NoError(t, database.DB.Create(&i).Error)
	return i
}

func asActor(u models.User) services.Actor {
	return services.Actor{ID: u.ID, Role: u.Role}
}

func balanceOf(t *testing.T, userID uint) int {
	t.Helper()
	var u models.User
	require.NoError(t, database.DB.First(&u, userID).Error)
	return u.PointsBalance
}

func ledgerOf(t *testing.T, userID uint) []models.PointsTransaction {
	t.Helper()
	var txs []models.PointsTransaction
	require.NoError(t, database.DB.Where("user_id = ?", userID).Order("id").Find(&txs).Error)
	return txs
}

func itemStatus(t *testing.T, itemID uint) string {
	t.Helper()
	var i models.Item
	require.NoError(t, database.DB.First(&i, itemID).Error)
	return i.Status
}
