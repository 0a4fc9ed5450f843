package core_test

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mikey/contract-sentinel/internal/core"
	"github.com/mikey/contract-sentinel/internal/record"
)

var fixedNow = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

func testConfig() core.Config {
	cfg := core.DefaultConfig()
	cfg.Clock = func() time.Time { return fixedNow }
	cfg.Forest.Trees = 50
	cfg.Isolation.Trees = 50
	return cfg
}

func daysAgo(n int) string {
	return fixedNow.AddDate(0, 0, -n).Format("02/01/2006")
}

type profile struct {
	status   string
	priority string
	title    string
}

var profiles = []profile{
	{"Pending review", "High", "Service agreement"},
	{"Awaiting signature", "Low", "Supply order"},
	{"In negotiation", "Medium", "Lease amendment"},
}

// portfolio returns n open records cycling through three well-separated statuses
func portfolio(n int) []record.Record {
	out := make([]record.Record, n)
	for i := range out {
		p := profiles[i%len(profiles)]
		out[i] = record.Record{
			record.FieldID:         fmt.Sprintf("C-%03d", i),
			record.FieldDate:       daysAgo(5 + i*3),
			record.FieldTitle:      p.title,
			record.FieldPriority:   p.priority,
			record.FieldContractor: "Contractor " + string(rune('A'+i%4)),
			record.FieldProject:    fmt.Sprintf("Project %d", i%2),
			record.FieldCountry:    "Kenya",
			record.FieldStatus:     p.status,
		}
	}
	return out
}

func withStatus(records []record.Record, status string) []record.Record {
	out := make([]record.Record, len(records))
	for i, r := range records {
		c := make(record.Record, len(r))
		for k, v := range r {
			c[k] = v
		}
		c[record.FieldStatus] = status
		out[i] = c
	}
	return out
}

type fakeCache struct {
	mu      sync.Mutex
	entries map[string]*core.CacheEntry
	gets    int
	sets    int
	getErr  error
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string]*core.CacheEntry)}
}

func (c *fakeCache) Get(_ context.Context, key string) (*core.CacheEntry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	if c.getErr != nil {
		return nil, c.getErr
	}
	return c.entries[key], nil
}

func (c *fakeCache) Set(_ context.Context, entry *core.CacheEntry) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sets++
	c.entries[entry.Key] = entry
	return nil
}

func (c *fakeCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	return nil
}

func (c *fakeCache) Cleanup(context.Context) error {
	return nil
}
