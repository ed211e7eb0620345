// Package registry is an on-disk schema cache: a digest-keyed bbolt
// store so a CLI invocation that repeatedly resolves the same schema
// (proof-validate, proof-transcode) does not re-parse and re-resolve
// it on every call. It caches immutable schema bytes keyed by their
// own hash, never proof histories.
package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	bolt "go.etcd.io/bbolt"

	"github.com/openseals/core/consensus"
	"github.com/openseals/core/schema"
)

var bucketSchemas = []byte("schemas_by_id")

// Cache is a bbolt-backed store mapping a schema's content-addressed
// digest to its canonical encoding, letting a caller hand back a
// resolved schema.Schema by id without re-reading the original
// structured document.
type Cache struct {
	db  *bolt.DB
	log *logrus.Entry
}

// Open creates or opens the bbolt database at path, creating its
// parent directory if needed, and ensures the schema bucket exists.
func Open(path string) (*Cache, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("registry: create data dir: %w", err)
		}
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("registry: open bbolt: %w", err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketSchemas)
		return err
	}); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("registry: create bucket: %w", err)
	}
	return &Cache{db: db, log: logrus.WithField("component", "registry")}, nil
}

// Close releases the underlying bbolt database.
func (c *Cache) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}

// Put stores sch's canonical encoding under its own content-addressed
// id, computed fresh on every call (a schema is immutable once
// identified, so overwriting an existing entry with the same id is a
// harmless no-op write).
func (c *Cache) Put(sch schema.Schema) (consensus.HashId, error) {
	id, err := sch.ID()
	if err != nil {
		return consensus.HashId{}, err
	}
	enc, err := schema.AppendSchema(nil, sch)
	if err != nil {
		return consensus.HashId{}, err
	}
	err = c.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketSchemas).Put(id.Bytes(), enc)
	})
	if err != nil {
		return consensus.HashId{}, fmt.Errorf("registry: put schema %s: %w", id.Hex(), err)
	}
	c.log.WithField("schema_id", id.Hex()).Debug("cached schema")
	return id, nil
}

// Get looks up a schema by its content-addressed id, returning the
// resolved schema.Schema and true on a hit, or false on a miss.
func (c *Cache) Get(id consensus.HashId) (schema.Schema, bool, error) {
	var enc []byte
	err := c.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketSchemas).Get(id.Bytes())
		if v == nil {
			return nil
		}
		enc = append([]byte(nil), v...)
		return nil
	})
	if err != nil {
		return schema.Schema{}, false, fmt.Errorf("registry: get schema %s: %w", id.Hex(), err)
	}
	if enc == nil {
		c.log.WithField("schema_id", id.Hex()).Debug("schema cache miss")
		return schema.Schema{}, false, nil
	}
	sch, err := schema.ReadSchema(consensus.NewCursor(enc))
	if err != nil {
		return schema.Schema{}, false, fmt.Errorf("registry: decode cached schema %s: %w", id.Hex(), err)
	}
	if err := sch.Resolve(); err != nil {
		return schema.Schema{}, false, err
	}
	c.log.WithField("schema_id", id.Hex()).Debug("schema cache hit")
	return sch, true, nil
}
