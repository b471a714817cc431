package model

import (
	"sort"
	"time"

	"github.com/hashicorp/go-set/v2"
	"github.com/samber/lo"
)

// ChangeSet is the result of parsing one rlog report for one location.
type ChangeSet struct {
	ID       UUID
	Root     string
	Location Location
	ParsedAt time.Time

	// Files by full name, keeping only the most recent revision
	Files   map[string]*File
	Commits []*Commit

	// BranchNames and TagNames are all names seen in the report, independent of Location
	BranchNames *set.Set[string]
	TagNames    *set.Set[string]
}

func NewChangeSet() *ChangeSet {
	return &ChangeSet{
		Files:       map[string]*File{},
		BranchNames: set.New[string](10),
		TagNames:    set.New[string](10),
	}
}

func (c *ChangeSet) GetFile(fullName string) *File {
	return c.Files[fullName]
}

// AddFile keeps the first file seen for each full name.
func (c *ChangeSet) AddFile(file *File) bool {
	if _, ok := c.Files[file.FullName]; ok {
		return false
	}

	c.Files[file.FullName] = file
	return true
}

func (c *ChangeSet) ListFiles() []*File {
	result := lo.Values(c.Files)

	sort.Slice(result, func(i, j int) bool {
		return result[i].FullName < result[j].FullName
	})

	return result
}

func (c *ChangeSet) ListBranchNames() []string {
	return sortedSlice(c.BranchNames)
}

func (c *ChangeSet) ListTagNames() []string {
	return sortedSlice(c.TagNames)
}

func (c *ChangeSet) IsEmpty() bool {
	return len(c.Commits) == 0
}

// Period returns the dates of the oldest and newest commits.
func (c *ChangeSet) Period() (time.Time, time.Time) {
	var first, last time.Time

	for _, commit := range c.Commits {
		if first.IsZero() || commit.Date.Before(first) {
			first = commit.Date
		}
		if last.IsZero() || commit.Date.After(last) {
			last = commit.Date
		}
	}

	return first, last
}

func sortedSlice(s *set.Set[string]) []string {
	if s == nil {
		return nil
	}

	result := s.Slice()
	sort.Strings(result)
	return result
}
