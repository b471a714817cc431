package model

import (
	"sort"

	"github.com/samber/lo"
)

type ChangeSets struct {
	byID map[UUID]*ChangeSet
}

func NewChangeSets() *ChangeSets {
	return &ChangeSets{
		byID: map[UUID]*ChangeSet{},
	}
}

// Add stores the change set, creating an id for it if needed.
func (s *ChangeSets) Add(cs *ChangeSet) *ChangeSet {
	if cs.ID == "" {
		cs.ID = NewUUID("c")
	}

	s.byID[cs.ID] = cs
	return cs
}

func (s *ChangeSets) Get(id UUID) *ChangeSet {
	return s.byID[id]
}

func (s *ChangeSets) Remove(id UUID) bool {
	_, ok := s.byID[id]
	delete(s.byID, id)
	return ok
}

func (s *ChangeSets) Count() int {
	return len(s.byID)
}

// List returns the change sets, latest parsed first.
func (s *ChangeSets) List() []*ChangeSet {
	result := lo.Values(s.byID)

	sort.Slice(result, func(i, j int) bool {
		if !result[i].ParsedAt.Equal(result[j].ParsedAt) {
			return result[i].ParsedAt.After(result[j].ParsedAt)
		}
		return result[i].ID < result[j].ID
	})

	return result
}
