package migrations

import (
	"github.com/rewearhq/rewear/app/models"
	"github.com/rewearhq/rewear/pkg/migration"
	"gorm.io/gorm"
)

func init() {
	migration.Register("20260301000000_create_users_table", &CreateUsersTable{})
	migration.Register("20260301000001_create_categories_table", &CreateCategoriesTable{})
	migration.Register("20260301000002_create_items_tables", &CreateItemsTables{})
	migration.Register("20260301000003_create_swaps_table", &CreateSwapsTable{})
	migration.Register("20260301000004_create_points_transactions_table", &CreatePointsTransactionsTable{})
	migration.Register("20260301000005_create_redemptions_table", &CreateRedemptionsTable{})
	migration.Register("20260301000006_create_messages_table", &CreateMessagesTable{})
}

// -------- 0001: users --------

type CreateUsersTable struct{}

func (m *CreateUsersTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.User{})
}

func (m *CreateUsersTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("users")
}

// -------- 0002: categories --------

type CreateCategoriesTable struct{}

func (m *CreateCategoriesTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Category{})
}

func (m *CreateCategoriesTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("categories")
}

// -------- 0003: items, item_images, item_tags --------

type CreateItemsTables struct{}

func (m *CreateItemsTables) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Item{}, &models.ItemImage{}, &models.ItemTag{})
}

func (m *CreateItemsTables) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("item_tags", "item_images", "items")
}

// -------- 0004: swaps --------

type CreateSwapsTable struct{}

func (m *CreateSwapsTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Swap{})
}

func (m *CreateSwapsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("swaps")
}

// -------- 0005: points_transactions --------

type CreatePointsTransactionsTable struct{}

func (m *CreatePointsTransactionsTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.PointsTransaction{})
}

func (m *CreatePointsTransactionsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("points_transactions")
}

// -------- 0006: redemptions --------

type CreateRedemptionsTable struct{}

func (m *CreateRedemptionsTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Redemption{})
}

func (m *CreateRedemptionsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("redemptions")
}

// -------- 0007: messages --------

type CreateMessagesTable struct{}

func (m *CreateMessagesTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Message{})
}

func (m *CreateMessagesTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("messages")
}
