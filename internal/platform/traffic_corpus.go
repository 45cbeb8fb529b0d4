package platform

import (
	"strings"
	"sync"

	"github.com/aleister1102/jsminer/internal/common/urlhandler"
	"github.com/aleister1102/jsminer/internal/models"
)

// TrafficCorpus holds the observed traffic of one invocation, in load order.
type TrafficCorpus struct {
	mu      sync.RWMutex
	records []models.TrafficRecord
}

// NewTrafficCorpus creates a corpus seeded with records.
func NewTrafficCorpus(records ...models.TrafficRecord) *TrafficCorpus {
	c := &TrafficCorpus{}
	c.Add(records...)
	return c
}

// Add appends records.
func (c *TrafficCorpus) Add(records ...models.TrafficRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = append(c.records, records...)
}

// Len returns the number of records.
func (c *TrafficCorpus) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.records)
}

// Records returns a copy of every record.
func (c *TrafficCorpus) Records() []models.TrafficRecord {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]models.TrafficRecord, len(c.records))
	copy(out, c.records)
	return out
}

// ForSite returns records whose canonical URL starts with site. An empty site matches everything.
func (c *TrafficCorpus) ForSite(site string) []models.TrafficRecord {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var out []models.TrafficRecord
	for _, record := range c.records {
		if strings.HasPrefix(urlhandler.Canonicalize(record.Target), site) {
			out = append(out, record)
		}
	}
	return out
}
