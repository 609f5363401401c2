// Package view holds the in-memory view model that the loaders render into,
// and the renderers that turn it into text, JSON or HTML.
package view

import (
	"sync"

	"github.com/naka-gawa/top-repos/internal/domain"
)

// ActivityBlock is the rendered result of one activity query.
type ActivityBlock struct {
	Since   string                       `json:"since"`
	Until   string                       `json:"until"`
	Entries []domain.CommitActivityEntry `json:"entries"`
	Summary *domain.ActivitySummary      `json:"summary,omitempty"`
}

// Item is one repository of the list together with the activity blocks
// appended to it.
type Item struct {
	Position int                      `json:"-"`
	Summary  domain.RepositorySummary `json:"summary"`
	Activity []ActivityBlock          `json:"activity"`
}

// List maps repository identifiers to their rendered items, in listing order.
// It is safe for concurrent use.
type List struct {
	mu    sync.RWMutex
	items []*Item
	index map[string]*Item
}

// NewList returns an empty List.
func NewList() *List {
	return &List{index: make(map[string]*Item)}
}

// Reset clears every item.
func (l *List) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = nil
	l.index = make(map[string]*Item)
}

// Add appends an item for the given summary. When two summaries share an
// identifier, lookups resolve to the first one.
func (l *List) Add(summary domain.RepositorySummary) {
	l.mu.Lock()
	defer l.mu.Unlock()
	item := &Item{Position: len(l.items) + 1, Summary: summary}
	l.items = append(l.items, item)
	if _, ok := l.index[summary.Repo]; !ok {
		l.index[summary.Repo] = item
	}
}

// AppendActivity attaches block to the item tagged with id. It reports
// false, leaving the list untouched, when no such item exists.
func (l *List) AppendActivity(id string, block ActivityBlock) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	item, ok := l.index[id]
	if !ok {
		return false
	}
	item.Activity = append(item.Activity, block)
	return true
}

// Lookup returns a copy of the item tagged with id.
func (l *List) Lookup(id string) (Item, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	item, ok := l.index[id]
	if !ok {
		return Item{}, false
	}
	return copyItem(item), true
}

// At returns a copy of the item at the 1-based list position.
func (l *List) At(position int) (Item, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if position < 1 || position > len(l.items) {
		return Item{}, false
	}
	return copyItem(l.items[position-1]), true
}

// Items returns a snapshot of all items in listing order.
func (l *List) Items() []Item {
	l.mu.RLock()
	defer l.mu.RUnlock()
	items := make([]Item, 0, len(l.items))
	for _, item := range l.items {
		items = append(items, copyItem(item))
	}
	return items
}

// Identifiers returns the identifiers of all items in listing order.
func (l *List) Identifiers() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	ids := make([]string, 0, len(l.items))
	for _, item := range l.items {
		ids = append(ids, item.Summary.Repo)
	}
	return ids
}

// Len returns the number of items.
func (l *List) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.items)
}

func copyItem(item *Item) Item {
	c := *item
	c.Activity = append([]ActivityBlock(nil), item.Activity...)
	return c
}
