// Package orm is a thin chainable query layer over GORM.
//
// Repositories use it instead of touching gorm.DB directly:
//
//	var items []models.Item
//	err := orm.DB().Model(&models.Item{}).Where("owner_id = ?", id).Get(&items)
//
// Multi-step writes run inside Transaction so they commit or roll back
// together:
//
//	err := orm.Transaction(func(tx *orm.Query) error {
//	    if err := tx.Create(&swap); err != nil { return err }
//	    return tx.Create(&entry)
//	})
package orm

import (
	"errors"
	"time"

	"github.com/rewearhq/rewear/pkg/cache"
	"github.com/rewearhq/rewear/pkg/database"
	"gorm.io/gorm"
)

// Pagination is the metadata returned alongside paginated result sets.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

type Query struct {
	db *gorm.DB
}

// DB returns a Query bound to the global connection.
func DB() *Query {
	return &Query{db: database.DB}
}

// Use wraps an existing gorm.DB (e.g. a transaction handle or a test DB).
func Use(db *gorm.DB) *Query {
	return &Query{db: db}
}

// Gorm exposes the underlying handle for the rare case the wrapper is not
// enough (joins with subqueries, migrator calls).
func (q *Query) Gorm() *gorm.DB { return q.db }

// ─── Chainable builders ───────────────────────────────────────────────────────

func (q *Query) Model(v interface{}) *Query {
	return &Query{db: q.db.Model(v)}
}

func (q *Query) Where(query string, args ...interface{}) *Query {
	return &Query{db: q.db.Where(query, args...)}
}

func (q *Query) Or(query string, args ...interface{}) *Query {
	return &Query{db: q.db.Or(query, args...)}
}

func (q *Query) Joins(join string, args ...interface{}) *Query {
	return &Query{db: q.db.Joins(join, args...)}
}

func (q *Query) Order(value string) *Query {
	return &Query{db: q.db.Order(value)}
}

func (q *Query) Limit(n int) *Query {
	return &Query{db: q.db.Limit(n)}
}

func (q *Query) Offset(n int) *Query {
	return &Query{db: q.db.Offset(n)}
}

func (q *Query) Preload(name string, args ...interface{}) *Query {
	return &Query{db: q.db.Preload(name, args...)}
}

func (q *Query) Select(fields string, args ...interface{}) *Query {
	return &Query{db: q.db.Select(fields, args...)}
}

func (q *Query) Distinct(args ...interface{}) *Query {
	return &Query{db: q.db.Distinct(args...)}
}

// ─── Reads ────────────────────────────────────────────────────────────────────

func (q *Query) Get(dest interface{}) error {
	return q.db.Find(dest).Error
}

func (q *Query) First(dest interface{}) error {
	return q.db.First(dest).Error
}

func (q *Query) Count(n *int64) error {
	return q.db.Count(n).Error
}

// GetWithPagination fills dest with one page of results and returns the
// pagination metadata. page and limit are clamped to sane values.
func (q *Query) GetWithPagination(dest interface{}, page, limit int) (Pagination, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	var total int64
	if err := q.db.Count(&total).Error; err != nil {
		return Pagination{}, err
	}

	err := q.db.Offset((page - 1) * limit).Limit(limit).Find(dest).Error
	if err != nil {
		return Pagination{}, err
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return Pagination{Page: page, Limit: limit, Total: total, TotalPages: totalPages}, nil
}

// Cache reads dest from the cache under key, falling back to the database and
// populating the cache on a miss.
func (q *Query) Cache(key string, ttl time.Duration, dest interface{}) error {
	if cache.Get(key, dest) {
		return nil
	}

	err := q.db.Find(dest).Error
	if err != nil {
		return err
	}

	cache.Set(key, dest, ttl)
	return nil
}

// ─── Writes ───────────────────────────────────────────────────────────────────

func (q *Query) Create(v interface{}) error {
	return q.db.Create(v).Error
}

func (q *Query) Save(v interface{}) error {
	return q.db.Save(v).Error
}

// Updates applies the column map/struct and returns the number of rows hit.
// Guarded state transitions rely on the count: zero rows means the WHERE
// clause no longer matched (someone else already moved the row).
func (q *Query) Updates(v interface{}) (int64, error) {
	res := q.db.Updates(v)
	return res.RowsAffected, res.Error
}

func (q *Query) Update(column string, value interface{}) (int64, error) {
	res := q.db.Update(column, value)
	return res.RowsAffected, res.Error
}

func (q *Query) Delete(v interface{}, conds ...interface{}) (int64, error) {
	res := q.db.Delete(v, conds...)
	return res.RowsAffected, res.Error
}

// ─── Transactions ─────────────────────────────────────────────────────────────

// Transaction runs fn inside a database transaction on the global connection.
func Transaction(fn func(tx *Query) error) error {
	return database.DB.Transaction(func(tx *gorm.DB) error {
		return fn(&Query{db: tx})
	})
}

// Transaction is the method form, for running against a non-global handle.
func (q *Query) Transaction(fn func(tx *Query) error) error {
	return q.db.Transaction(func(tx *gorm.DB) error {
		return fn(&Query{db: tx})
	})
}

// ─── Errors ───────────────────────────────────────────────────────────────────

// IsNotFound reports whether err is GORM's record-not-found.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
