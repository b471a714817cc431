package rlog

import (
	"strings"

	"github.com/hashicorp/go-set/v2"
)

// resolver maps revisions to the branch they belong to, for the file being scanned,
// and collects the names of all branches and tags in the report.
type resolver struct {
	// branches by prefix, like 1.2.4. -> dev
	branches  map[string]string
	fileNames *set.Set[string]

	branchNames *set.Set[string]
	tagNames    *set.Set[string]
}

func newResolver() *resolver {
	return &resolver{
		branches:    map[string]string{},
		fileNames:   set.New[string](10),
		branchNames: set.New[string](10),
		tagNames:    set.New[string](10),
	}
}

// resetFile drops the branches of the previous file. Global names are kept.
func (r *resolver) resetFile() {
	r.branches = map[string]string{}
	r.fileNames = set.New[string](10)
}

// register classifies a symbolic name by the shape of its revision.
// A tag with a revision shaped like a branch is taken as a branch.
func (r *resolver) register(name, revision string) {
	r.fileNames.Insert(name)

	prefix, ok := branchPrefix(revision)
	if ok {
		r.branches[prefix] = name
		r.branchNames.Insert(name)
	} else {
		r.tagNames.Insert(name)
	}
}

// branchOf returns the name of the branch the revision is on, or false if it is
// on no registered branch.
//
// A revision is on the branch with prefix P if it starts with P and has no other dot
// after it, so the only candidate prefix is the revision up to its last dot.
func (r *resolver) branchOf(revision string) (string, bool) {
	i := strings.LastIndex(revision, ".")
	if i < 0 {
		return "", false
	}

	name, ok := r.branches[revision[:i+1]]
	return name, ok
}

func (r *resolver) registeredInFile(name string) bool {
	return r.fileNames.Contains(name)
}

func (r *resolver) registered(name string) bool {
	return r.branchNames.Contains(name) || r.tagNames.Contains(name)
}
