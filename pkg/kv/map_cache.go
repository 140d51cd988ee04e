package kv

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/cockroachdb/pebble"
	"github.com/dsnet/compress/bzip2"
)

// MapCache stores raw map payloads (overpass responses) in pebble, bzip2 compressed,
// each prefixed with the unix nano time it was written at.
type MapCache struct {
	db  *pebble.DB
	ttl time.Duration
	now func() time.Time
}

func NewMapCache(db *pebble.DB, ttl time.Duration) *MapCache {
	return &MapCache{db: db, ttl: ttl, now: time.Now}
}

func OpenMapCache(dir string, ttl time.Duration) (*MapCache, error) {
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("open map cache %s: %w", dir, err)
	}
	return NewMapCache(db, ttl), nil
}

// Get returns ok=false for a missing or expired entry. ttl <= 0 means entries never expire.
func (c *MapCache) Get(key string) ([]byte, bool, error) {
	val, closer, err := c.db.Get([]byte(key))
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	defer closer.Close()

	if len(val) < 8 {
		return nil, false, fmt.Errorf("map cache entry %q is truncated", key)
	}
	writtenAt := time.Unix(0, int64(binary.BigEndian.Uint64(val[:8])))
	if c.ttl > 0 && c.now().Sub(writtenAt) > c.ttl {
		return nil, false, nil
	}

	payload, err := decompress(val[8:])
	if err != nil {
		return nil, false, err
	}
	return payload, true, nil
}

func (c *MapCache) Set(key string, payload []byte) error {
	compressed, err := compress(payload)
	if err != nil {
		return err
	}

	val := make([]byte, 8+len(compressed))
	binary.BigEndian.PutUint64(val[:8], uint64(c.now().UnixNano()))
	copy(val[8:], compressed)

	return c.db.Set([]byte(key), val, pebble.Sync)
}

func (c *MapCache) Delete(key string) error {
	return c.db.Delete([]byte(key), pebble.Sync)
}

func (c *MapCache) Close() error {
	return c.db.Close()
}

func compress(payload []byte) ([]byte, error) {
	var buf bytes.Buffer
	bz, err := bzip2.NewWriter(&buf, &bzip2.WriterConfig{})
	if err != nil {
		return nil, err
	}
	if _, err := bz.Write(payload); err != nil {
		bz.Close()
		return nil, err
	}
	if err := bz.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decompress(compressed []byte) ([]byte, error) {
	bz, err := bzip2.NewReader(bytes.NewReader(compressed), nil)
	if err != nil {
		return nil, err
	}
	defer bz.Close()
	return io.ReadAll(bz)
}
