// Package store defines the persistence boundary for generated reports
// and discussion transcripts. The module ships an in-memory
// implementation; callers plug in their own backend for durability.
package store

import (
	"context"
	"sync"
)

// DiscussionTurn is one question/answer exchange of the discussion loop.
type DiscussionTurn struct {
	Round    int    `json:"round"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// ReportStore receives the report and transcript produced for a paper.
// Implementations must be safe for concurrent use.
type ReportStore interface {
	SaveReport(ctx context.Context, paperID, report string) error
	SaveDiscussion(ctx context.Context, paperID string, turns []DiscussionTurn) error
}

// InMemory keeps the latest report and transcript per paper in process
// memory.
type InMemory struct {
	mu          sync.RWMutex
	reports     map[string]string
	discussions map[string][]DiscussionTurn
}

func NewInMemory() *InMemory {
	return &InMemory{
		reports:     make(map[string]string),
		discussions: make(map[string][]DiscussionTurn),
	}
}

func (s *InMemory) SaveReport(_ context.Context, paperID, report string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports[paperID] = report
	return nil
}

func (s *InMemory) SaveDiscussion(_ context.Context, paperID string, turns []DiscussionTurn) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.discussions[paperID] = append([]DiscussionTurn(nil), turns...)
	return nil
}

// Report returns the stored report for a paper, if any.
func (s *InMemory) Report(paperID string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.reports[paperID]
	return r, ok
}

// Discussion returns the stored transcript for a paper.
func (s *InMemory) Discussion(paperID string) []DiscussionTurn {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]DiscussionTurn(nil), s.discussions[paperID]...)
}
