package model

import (
	"sort"

	mapset "github.com/deckarep/golang-set/v2"
)

// SessionState is the durable record of vacancies that already reached a
// terminal decision. The applied and ignored sets are disjoint at all times:
// an id enters exactly one of them and never moves afterwards.
type SessionState struct {
	applied mapset.Set[string]
	ignored mapset.Set[string]
}

func NewSessionState() *SessionState {
	return &SessionState{
		applied: mapset.NewSet[string](),
		ignored: mapset.NewSet[string](),
	}
}

// ReconstructSessionState rebuilds state from persisted id lists.
// An id present in both lists is kept only in applied.
func ReconstructSessionState(applied, ignored []string) *SessionState {
	s := NewSessionState()
	for _, id := range applied {
		s.applied.Add(id)
	}
	for _, id := range ignored {
		if !s.applied.Contains(id) {
			s.ignored.Add(id)
		}
	}
	return s
}

// MarkApplied records id as applied. Returns false when the id is already in
// the ignored set; the state is left untouched in that case.
func (s *SessionState) MarkApplied(id string) bool {
	if s.ignored.Contains(id) {
		return false
	}
	s.applied.Add(id)
	return true
}

// MarkIgnored records id as ignored. Returns false when the id is already in
// the applied set.
func (s *SessionState) MarkIgnored(id string) bool {
	if s.applied.Contains(id) {
		return false
	}
	s.ignored.Add(id)
	return true
}

// IsKnown reports whether id already has a terminal decision.
func (s *SessionState) IsKnown(id string) bool {
	return s.applied.Contains(id) || s.ignored.Contains(id)
}

func (s *SessionState) IsApplied(id string) bool {
	return s.applied.Contains(id)
}

func (s *SessionState) IsIgnored(id string) bool {
	return s.ignored.Contains(id)
}

// AppliedIDs returns the applied set as a sorted slice for stable persistence.
func (s *SessionState) AppliedIDs() []string {
	ids := s.applied.ToSlice()
	sort.Strings(ids)
	return ids
}

// IgnoredIDs returns the ignored set as a sorted slice for stable persistence.
func (s *SessionState) IgnoredIDs() []string {
	ids := s.ignored.ToSlice()
	sort.Strings(ids)
	return ids
}
