// Package migration tracks and applies versioned schema migrations.
//
// Migration files register themselves from init():
//
//	migration.Register("20260301000000_create_users", createUsers{})
//
// and the CLI drives the runner:
//
//	rewear migrate
//	rewear migrate:rollback
//	rewear migrate:status
package migration

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/rewearhq/rewear/pkg/logger"
)

// Migration applies or reverses one schema change.
type Migration interface {
	Up(db *gorm.DB) error
	Down(db *gorm.DB) error
}

// record is one row of the bookkeeping table. Batch groups the migrations
// applied by a single `migrate` invocation so rollback can undo them together.
type record struct {
	ID    uint      `gorm:"primaryKey;autoIncrement"`
	Name  string    `gorm:"uniqueIndex;size:255;not null"`
	Batch int       `gorm:"not null"`
	RunAt time.Time `gorm:"autoCreateTime"`
}

func (record) TableName() string { return "rewear_migrations" }

type registered struct {
	name string
	m    Migration
}

var registry []registered

// Register adds a migration under a sortable timestamp-prefixed name, e.g.
// "20260301000000_create_users". Names decide execution order.
func Register(name string, m Migration) {
	registry = append(registry, registered{name: name, m: m})
}

// Runner applies registered migrations against one database.
type Runner struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Runner { return &Runner{db: db} }

func (r *Runner) ensureTable() error {
	return r.db.AutoMigrate(&record{})
}

func (r *Runner) applied() (map[string]record, error) {
	var rows []record
	if err := r.db.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[string]record, len(rows))
	for _, row := range rows {
		out[row.Name] = row
	}
	return out, nil
}

func (r *Runner) lastBatch() int {
	var n struct{ Max int }
	r.db.Model(&record{}).Select("MAX(batch) as max").Scan(&n)
	return n.Max
}

// Run applies every pending migration as one batch.
func (r *Runner) Run() error {
	if err := r.ensureTable(); err != nil {
		return fmt.Errorf("migration: ensure table: %w", err)
	}

	done, err := r.applied()
	if err != nil {
		return fmt.Errorf("migration: read state: %w", err)
	}

	var pending []registered
	for _, reg := range registry {
		if _, ok := done[reg.name]; !ok {
			pending = append(pending, reg)
		}
	}
	sort.Slice(pending, func(i, j int) bool { return pending[i].name < pending[j].name })

	if len(pending) == 0 {
		fmt.Println("Nothing to migrate.")
		return nil
	}

	batch := r.lastBatch() + 1
	for _, reg := range pending {
		fmt.Printf("  Migrating: %s\n", reg.name)
		if err := reg.m.Up(r.db); err != nil {
			return fmt.Errorf("migration: %s up: %w", reg.name, err)
		}
		if err := r.db.Create(&record{Name: reg.name, Batch: batch}).Error; err != nil {
			return fmt.Errorf("migration: record %s: %w", reg.name, err)
		}
	}

	logger.Info("migration: applied", "count", len(pending), "batch", batch)
	return nil
}

// Rollback reverses the most recent batch, newest migration first.
func (r *Runner) Rollback() error {
	if err := r.ensureTable(); err != nil {
		return fmt.Errorf("migration: ensure table: %w", err)
	}

	batch := r.lastBatch()
	if batch == 0 {
		fmt.Println("Nothing to roll back.")
		return nil
	}

	var rows []record
	if err := r.db.Where("batch = ?", batch).Order("id desc").Find(&rows).Error; err != nil {
		return err
	}

	byName := make(map[string]Migration, len(registry))
	for _, reg := range registry {
		byName[reg.name] = reg.m
	}

	for _, row := range rows {
		m, ok := byName[row.Name]
		if !ok {
			return fmt.Errorf("migration: %s is recorded but not registered", row.Name)
		}
		fmt.Printf("  Rolling back: %s\n", row.Name)
		if err := m.Down(r.db); err != nil {
			return fmt.Errorf("migration: %s down: %w", row.Name, err)
		}
		if err := r.db.Delete(&row).Error; err != nil {
			return err
		}
	}

	logger.Info("migration: rolled back", "count", len(rows), "batch", batch)
	return nil
}

// Status prints every registered migration with its applied batch, if any.
func (r *Runner) Status() error {
	if err := r.ensureTable(); err != nil {
		return err
	}
	done, err := r.applied()
	if err != nil {
		return err
	}

	fmt.Printf("%-60s  %-8s  %s\n", "Migration", "Status", "Batch")
	fmt.Println(strings.Repeat("-", 80))
	for _, reg := range registry {
		if row, ok := done[reg.name]; ok {
			fmt.Printf("%-60s  %-8s  %d\n", reg.name, "ran", row.Batch)
		} else {
			fmt.Printf("%-60s  %-8s  -\n", reg.name, "pending")
		}
	}
	return nil
}
