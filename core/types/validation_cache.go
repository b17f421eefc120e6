package types

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// validatorCache caches compiled contract validators by schema hash
type validatorCache struct {
	mu      sync.RWMutex
	cache   map[string]*jsonschema.Schema
	maxSize int
}

func newValidatorCache(maxSize int) *validatorCache {
	return &validatorCache{
		cache:   make(map[string]*jsonschema.Schema),
		maxSize: maxSize,
	}
}

func (c *validatorCache) get(schemaHash string) (*jsonschema.Schema, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.cache[schemaHash]
	return v, ok
}

func (c *validatorCache) put(schemaHash string, validator *jsonschema.Schema) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Simple eviction: if cache full, clear it
	if len(c.cache) >= c.maxSize {
		c.cache = make(map[string]*jsonschema.Schema)
	}

	c.cache[schemaHash] = validator
}

func (c *validatorCache) len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.cache)
}

// hashSchema computes SHA-256 hash of the marshalled JSON Schema
func hashSchema(schemaJSON []byte) string {
	hash := sha256.Sum256(schemaJSON)
	return hex.EncodeToString(hash[:])
}

// marshalSchema marshals a schema once for both hashing and compilation
func marshalSchema(schema JSONSchema) ([]byte, error) {
	return json.Marshal(schema)
}
