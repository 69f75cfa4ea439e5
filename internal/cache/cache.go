// Package cache keeps the last photo a widget received, with an absolute
// expiry, so page loads inside the TTL never touch the network.
package cache

import (
	"time"

	"spring/internal/logging"
	"spring/internal/model"

	"github.com/go-faster/errors"
	"github.com/goccy/go-json"
)

// SlotKey is the single well-known slot used unless PerCriterion is set.
const SlotKey = "data"

type Store interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
}

type Option func(*Cache)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		c.now = now
	}
}

// PerCriterion keys entries by criterion so switching collections does not
// serve the previous selection's photo.
func PerCriterion() Option {
	return func(c *Cache) {
		c.perCriterion = true
	}
}

type Cache struct {
	store        Store
	now          func() time.Time
	perCriterion bool
}

func New(store Store, opts ...Option) *Cache {
	c := &Cache{store: store, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Read returns the cached photo only while it is unexpired.
func (c *Cache) Read(sc model.SelectionCriterion) (model.Photo, bool) {
	rec, ok := c.load(sc)
	if !ok || c.now().UnixMilli() >= rec.ExpiresAt {
		return model.Photo{}, false
	}
	return rec.Photo, true
}

// ReadStale ignores expiry.
func (c *Cache) ReadStale(sc model.SelectionCriterion) (model.Photo, bool) {
	rec, ok := c.load(sc)
	if !ok {
		return model.Photo{}, false
	}
	return rec.Photo, true
}

// Write overwrites the entry with expiresAt = now + ttl.
func (c *Cache) Write(sc model.SelectionCriterion, p model.Photo, ttl time.Duration) error {
	rec := model.CachedPhoto{
		Photo:     p,
		ExpiresAt: c.now().Add(ttl).UnixMilli(),
	}

	b, err := json.Marshal(rec)
	if err != nil {
		return errors.Wrap(err, "marshal cached photo")
	}

	if err := c.store.Set(c.key(sc), b); err != nil {
		return errors.Wrap(err, "write cache")
	}
	return nil
}

func (c *Cache) key(sc model.SelectionCriterion) string {
	if c.perCriterion {
		return sc.Hash()
	}
	return SlotKey
}

// load treats anything that does not decode into a usable record as absent.
func (c *Cache) load(sc model.SelectionCriterion) (model.CachedPhoto, bool) {
	b, err := c.store.Get(c.key(sc))
	if err != nil || len(b) == 0 {
		return model.CachedPhoto{}, false
	}

	var rec model.CachedPhoto
	if err := json.Unmarshal(b, &rec); err != nil {
		logging.Debug().Err(err).Msg("discarding unreadable cache entry")
		return model.CachedPhoto{}, false
	}
	if rec.Photo.URL == "" || rec.ExpiresAt == 0 {
		return model.CachedPhoto{}, false
	}

	return rec, true
}
