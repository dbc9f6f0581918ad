package kvstore

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrQuotaExceeded is returned by Set when a store cannot hold the
// value without exceeding its capacity.
var ErrQuotaExceeded = errors.New("kvstore: quota exceeded")

// Op identifies the kind of mutation reported by the change feed.
type Op string

const (
	OpSet    Op = "set"
	OpRemove Op = "remove"
)

// Event describes one committed mutation.
type Event struct {
	Key string
	Op  Op
}

// Store is a synchronous string key/value store. It is the single
// source of truth for all storefront state; every value is a JSON
// document. Implementations publish an Event to subscribers after
// each successful mutation.
type Store interface {
	// Get returns the value for key and whether it was present.
	Get(key string) (string, bool)
	// Set writes value under key, replacing any previous value.
	Set(key, value string) error
	// Remove deletes key. Removing an absent key is a no-op.
	Remove(key string)
	// Keys returns all keys currently present, in no defined order.
	Keys() []string
	// Subscribe registers fn to be called after every mutation.
	Subscribe(fn func(Event))
}

// GetJSON reads key and unmarshals it into out. It returns false when
// the key is absent and an error when the stored value cannot be
// decoded.
func GetJSON(s Store, key string, out interface{}) (bool, error) {
	raw, ok := s.Get(key)
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return true, fmt.Errorf("kvstore: decode %s: %w", key, err)
	}
	return true, nil
}

// SetJSON marshals v and writes it under key.
func SetJSON(s Store, key string, v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("kvstore: encode %s: %w", key, err)
	}
	return s.Set(key, string(raw))
}
