// Package seeders fills a fresh database with the rows the marketplace
// needs to be usable: categories, the admin account, demo users and
// items. Each seed file self-registers from init() and `rewear seed`
// runs the lot.
package seeders

import (
	"fmt"
	"sync"

	"gorm.io/gorm"
)

// SeederFunc inserts one group of rows.
type SeederFunc func(db *gorm.DB) error

type entry struct {
	name string
	fn   SeederFunc
}

var (
	mu       sync.Mutex
	registry []entry
)

// Register queues a seeder under a display name, in call order.
func Register(name string, fn SeederFunc) {
	mu.Lock()
	defer mu.Unlock()
	registry = append(registry, entry{name: name, fn: fn})
}

// RunAll executes the registered seeders in order, stopping at the
// first failure.
func RunAll(db *gorm.DB) error {
	mu.Lock()
	queued := append([]entry(nil), registry...)
	mu.Unlock()

	if len(queued) == 0 {
		fmt.Println("  (no seeders registered)")
		return nil
	}
	for _, e := range queued {
		fmt.Printf("  • Running seeder: %s … ", e.name)
		if err := e.fn(db); err != nil {
			fmt.Println("FAILED")
			return fmt.Errorf("seeder %q: %w", e.name, err)
		}
		fmt.Println("done")
	}
	return nil
}
