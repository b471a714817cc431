package rlog

import (
	"github.com/pescuma/cvschanges/lib/filters"
	"github.com/pescuma/cvschanges/lib/model"
)

type changeKey struct {
	date    int64
	author  string
	message string
}

func newChangeKey(c *model.Commit) changeKey {
	return changeKey{
		date:    c.Date.UnixNano(),
		author:  c.Author,
		message: c.Message,
	}
}

// accumulator merges the commits of the same logical change and keeps the most
// recent revision of each file.
type accumulator struct {
	exclude filters.FileFilter

	files    map[string]*model.File
	commits  []*model.Commit
	byChange map[changeKey]*model.Commit
}

func newAccumulator(exclude filters.FileFilter) *accumulator {
	return &accumulator{
		exclude:  exclude,
		files:    map[string]*model.File{},
		byChange: map[changeKey]*model.Commit{},
	}
}

// add returns false if the commit had no file left after exclusions.
func (a *accumulator) add(commit *model.Commit) bool {
	files := commit.Files
	if a.exclude != nil {
		files = filters.Exclude(files, a.exclude)
	}
	if len(files) == 0 {
		return false
	}

	for _, f := range files {
		// The report is newest first, so the first one seen is the latest revision
		if _, ok := a.files[f.FullName]; !ok {
			a.files[f.FullName] = f.Clone()
		}
	}

	key := newChangeKey(commit)

	existing, ok := a.byChange[key]
	if !ok {
		commit.Files = files
		a.commits = append(a.commits, commit)
		a.byChange[key] = commit
		return true
	}

	for _, f := range files {
		if !containsRevision(existing.Files, f) {
			existing.AddFiles(f)
		}
	}

	return true
}

func containsRevision(files []*model.File, file *model.File) bool {
	for _, f := range files {
		if f.FullName == file.FullName && f.Revision == file.Revision {
			return true
		}
	}
	return false
}

func (a *accumulator) countCommits() int {
	return len(a.commits)
}
