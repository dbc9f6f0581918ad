package kvstore

import (
	"fmt"
	"sync"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// Entry is the single table backing GormStore: one row per key, the
// value a JSON document. Last writer wins.
type Entry struct {
	Key   string `gorm:"primaryKey;type:varchar(255)"`
	Value string `gorm:"type:text"`
}

// TableName keeps the table name stable across GORM naming changes.
func (Entry) TableName() string { return "kv_entries" }

// GormStore is a durable Store backed by a relational database. It
// has no quota; the browser-style capacity limit only applies to the
// in-memory backend.
type GormStore struct {
	db   *gorm.DB
	mu   sync.Mutex
	subs []func(Event)
}

// OpenGormStore connects to the given driver ("sqlite" or "postgres")
// and migrates the kv_entries table.
func OpenGormStore(driver, dsn string) (*GormStore, error) {
	var dialector gorm.Dialector
	switch driver {
	case "sqlite":
		dialector = sqlite.Open(dsn)
	case "postgres":
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("kvstore: unknown driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("kvstore: open %s store: %w", driver, err)
	}
	if err := db.AutoMigrate(&Entry{}); err != nil {
		return nil, fmt.Errorf("kvstore: migrate kv_entries: %w", err)
	}
	return &GormStore{db: db}, nil
}

// NewGormStore wraps an already-open *gorm.DB. The caller is
// responsible for having migrated the Entry table.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Get returns the value for key and whether it was present.
func (g *GormStore) Get(key string) (string, bool) {
	var entry Entry
	err := g.db.First(&entry, "key = ?", key).Error
	if err != nil {
		return "", false
	}
	return entry.Value, true
}

// Set upserts value under key.
func (g *GormStore) Set(key, value string) error {
	err := g.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&Entry{Key: key, Value: value}).Error
	if err != nil {
		return fmt.Errorf("kvstore: set %s: %w", key, err)
	}
	g.notify(Event{Key: key, Op: OpSet})
	return nil
}

// Remove deletes key. Removing an absent key is a no-op.
func (g *GormStore) Remove(key string) {
	res := g.db.Delete(&Entry{}, "key = ?", key)
	if res.Error != nil || res.RowsAffected == 0 {
		return
	}
	g.notify(Event{Key: key, Op: OpRemove})
}

// Keys returns all keys currently present.
func (g *GormStore) Keys() []string {
	var keys []string
	if err := g.db.Model(&Entry{}).Pluck("key", &keys).Error; err != nil {
		return nil
	}
	return keys
}

// Subscribe registers fn on the change feed.
func (g *GormStore) Subscribe(fn func(Event)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.subs = append(g.subs, fn)
}

func (g *GormStore) notify(ev Event) {
	g.mu.Lock()
	subs := make([]func(Event), len(g.subs))
	copy(subs, g.subs)
	g.mu.Unlock()
	for _, fn := range subs {
		fn(ev)
	}
}
