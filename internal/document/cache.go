package document

import (
	"sync"

	"github.com/google/uuid"
)

// stateCache holds the folded state per document together with the sequence
// number it reflects. Entries are only read and written from inside the
// owning document's executor; the mutex just protects the map itself.
type stateCache struct {
	mu    sync.Mutex
	docs  map[uuid.UUID]*Document
	seqNo map[uuid.UUID]int64
}

func newStateCache() *stateCache {
	return &stateCache{
		docs:  make(map[uuid.UUID]*Document),
		seqNo: make(map[uuid.UUID]int64),
	}
}

func (c *stateCache) get(id uuid.UUID) (*Document, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	doc, ok := c.docs[id]
	return doc, ok
}

func (c *stateCache) seq(id uuid.UUID) int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.seqNo[id]
}

func (c *stateCache) put(id uuid.UUID, doc *Document, seq int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.docs[id] = doc
	c.seqNo[id] = seq
}

func (c *stateCache) invalidate(id uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.docs, id)
	delete(c.seqNo, id)
}
