package graphql

import (
	"context"
	"encoding/json"
	"sync"
)

// queryCache stores the raw data of completed query operations, keyed by
// operation name and serialized variables. Access is protected by
// sync.RWMutex for thread safety. The cache is owned by the transport layer
// and cleared by Client.Reset.
type queryCache struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

func newQueryCache() *queryCache {
	return &queryCache{
		entries: make(map[string][]byte),
	}
}

// key derives the cache key for an operation invocation. Variables marshal
// deterministically (map keys are sorted), so equal inputs share a key.
func (c *queryCache) key(opName string, variables interface{}) string {
	if variables == nil {
		return opName
	}
	encoded, err := json.Marshal(variables)
	if err != nil {
		return opName
	}
	return opName + ":" + string(encoded)
}

func (c *queryCache) get(key string) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	data, ok := c.entries[key]
	return data, ok
}

func (c *queryCache) set(key string, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = data
}

func (c *queryCache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string][]byte)
}

// pendingRequests tracks in-flight operation contexts so Reset can cancel
// them.
type pendingRequests struct {
	mu     sync.Mutex
	nextID int
	cancel map[int]context.CancelFunc
}

func newPendingRequests() *pendingRequests {
	return &pendingRequests{
		cancel: make(map[int]context.CancelFunc),
	}
}

func (p *pendingRequests) add(cancel context.CancelFunc) int {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.nextID++
	id := p.nextID
	p.cancel[id] = cancel
	return id
}

func (p *pendingRequests) remove(id int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	delete(p.cancel, id)
}

// cancelAll cancels every tracked request and returns how many there were.
func (p *pendingRequests) cancelAll() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	count := len(p.cancel)
	for id, cancel := range p.cancel {
		cancel()
		delete(p.cancel, id)
	}
	return count
}
