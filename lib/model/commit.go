package model

import (
	"time"
)

type Commit struct {
	Date    time.Time
	Author  string
	Message string

	// CommitID is the server commit id, when the server reports one
	CommitID string

	Files []*File
}

func NewCommit(date time.Time, author string) *Commit {
	return &Commit{
		Date:   date,
		Author: author,
	}
}

// SameChange returns true if both commits are the same logical change.
// The server reports a change once per file it touched.
func (c *Commit) SameChange(other *Commit) bool {
	return c.Date.Equal(other.Date) &&
		c.Author == other.Author &&
		c.Message == other.Message
}

func (c *Commit) AddFiles(files ...*File) {
	c.Files = append(c.Files, files...)
}

func (c *Commit) CountDeleted() int {
	result := 0
	for _, f := range c.Files {
		if f.Dead {
			result++
		}
	}
	return result
}
