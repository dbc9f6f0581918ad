package kvstore_test

import (
	"testing"

	"essence/pkg/kvstore"

	"github.com/stretchr/testify/assert"
)

func TestMemoryStore_SetGetRemove(t *testing.T) {
	store := kvstore.NewMemoryStore()

	_, ok := store.Get("missing")
	assert.False(t, ok)

	assert.NoError(t, store.Set("greeting", "hola"))
	v, ok := store.Get("greeting")
	assert.True(t, ok)
	assert.Equal(t, "hola", v)

	assert.NoError(t, store.Set("greeting", "buenas"))
	v, _ = store.Get("greeting")
	assert.Equal(t, "buenas", v)

	store.Remove("greeting")
	_, ok = store.Get("greeting")
	assert.False(t, ok)

	// Removing an absent key is a no-op.
	store.Remove("greeting")
}

func TestMemoryStore_Quota(t *testing.T) {
	store := kvstore.NewMemoryStoreWithQuota(20)

	assert.NoError(t, store.Set("a", "0123456789")) // 11 bytes
	err := store.Set("b", "0123456789")             // would be 22
	assert.ErrorIs(t, err, kvstore.ErrQuotaExceeded)

	// The failed write must not clobber existing data.
	v, ok := store.Get("a")
	assert.True(t, ok)
	assert.Equal(t, "0123456789", v)
	_, ok = store.Get("b")
	assert.False(t, ok)

	// Replacing a value only counts the delta.
	assert.NoError(t, store.Set("a", "012345678"))

	// Removing frees quota for new writes.
	store.Remove("a")
	assert.NoError(t, store.Set("b", "0123456789"))
}

func TestMemoryStore_Keys(t *testing.T) {
	store := kvstore.NewMemoryStore()
	assert.NoError(t, store.Set("one", "1"))
	assert.NoError(t, store.Set("two", "2"))

	keys := store.Keys()
	assert.Len(t, keys, 2)
	assert.ElementsMatch(t, []string{"one", "two"}, keys)
}

func TestMemoryStore_Subscribe(t *testing.T) {
	store := kvstore.NewMemoryStore()

	var events []kvstore.Event
	store.Subscribe(func(ev kvstore.Event) {
		events = append(events, ev)
	})

	assert.NoError(t, store.Set("k", "v"))
	store.Remove("k")
	store.Remove("k") // absent, must not notify

	assert.Equal(t, []kvstore.Event{
		{Key: "k", Op: kvstore.OpSet},
		{Key: "k", Op: kvstore.OpRemove},
	}, events)
}

func TestJSONHelpers(t *testing.T) {
	store := kvstore.NewMemoryStore()

	type payload struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	found, err := kvstore.GetJSON(store, "p", &payload{})
	assert.NoError(t, err)
	assert.False(t, found)

	assert.NoError(t, kvstore.SetJSON(store, "p", payload{Name: "x", Count: 3}))

	var got payload
	found, err = kvstore.GetJSON(store, "p", &got)
	assert.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, payload{Name: "x", Count: 3}, got)

	// A corrupt value reports an error and found=true.
	assert.NoError(t, store.Set("p", "{not json"))
	found, err = kvstore.GetJSON(store, "p", &got)
	assert.True(t, found)
	assert.Error(t, err)
}
