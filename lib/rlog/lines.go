package rlog

import (
	"regexp"
	"strings"
	"time"

	"github.com/pkg/errors"
)

const (
	rcsFilePrefix             = "RCS file:"
	rcsFileSuffix             = ",v"
	symbolicNamesPrefix       = "symbolic names:"
	keywordSubstitutionPrefix = "keyword substitution:"
	revisionPrefix            = "revision "
	datePrefix                = "date:"
	branchesPrefix            = "branches:"
	atticDir                  = "Attic"
)

var (
	commitDivider = strings.Repeat("-", 28)
	fileDivider   = strings.Repeat("=", 77)

	// branchRevisionRE matches the magic revision of a branch tag, like 1.2.0.4:
	// an even number of groups with a zero in the second to last one.
	branchRevisionRE = regexp.MustCompile(`^((?:\d+\.\d+\.)+)0\.(\d+)$`)
)

// RepositoryRoot returns the path of the repository in a CVSROOT connection string.
//
//	:pserver:user@host:/cvsroot      -> /cvsroot
//	:pserver:user@host:2401/cvsroot  -> /cvsroot
//	/cvsroot                         -> /cvsroot
func RepositoryRoot(cvsRoot string) string {
	cvsRoot = strings.TrimSpace(cvsRoot)

	root := cvsRoot[strings.LastIndex(cvsRoot, ":")+1:]

	slash := strings.Index(root, "/")
	if slash > 0 && strings.Trim(root[:slash], "0123456789") == "" {
		root = root[slash:]
	}

	return strings.TrimSuffix(root, "/")
}

// parseFileName extracts the full and relative names from an "RCS file:" line.
func parseFileName(line, root string) (string, string, bool) {
	if !strings.HasPrefix(line, rcsFilePrefix) {
		return "", "", false
	}

	fullName := strings.TrimSpace(strings.TrimPrefix(line, rcsFilePrefix))
	fullName = strings.TrimSuffix(fullName, rcsFileSuffix)

	name := fullName
	if root != "" && strings.HasPrefix(name, root+"/") {
		name = name[len(root)+1:]
	}

	parts := strings.Split(name, "/")
	if len(parts) > 1 && parts[len(parts)-2] == atticDir {
		parts = append(parts[:len(parts)-2], parts[len(parts)-1])
		name = strings.Join(parts, "/")
	}

	return fullName, name, true
}

// parseSymbolicName splits a "\tname: revision" row on its last colon.
func parseSymbolicName(line string) (string, string, bool) {
	i := strings.LastIndex(line, ":")
	if i < 0 {
		return "", "", false
	}

	name := strings.TrimSpace(line[:i])
	revision := strings.TrimSpace(line[i+1:])
	if name == "" || revision == "" {
		return "", "", false
	}

	return name, revision, true
}

// branchPrefix returns the prefix shared by all revisions of a branch, given the
// branch magic revision. 1.2.0.4 becomes 1.2.4.
func branchPrefix(revision string) (string, bool) {
	m := branchRevisionRE.FindStringSubmatch(revision)
	if m == nil {
		return "", false
	}

	return m[1] + m[2] + ".", true
}

func parseRevision(line string) (string, bool) {
	if !strings.HasPrefix(line, revisionPrefix) {
		return "", false
	}

	fields := strings.Fields(strings.TrimPrefix(line, revisionPrefix))
	if len(fields) == 0 {
		return "", false
	}

	return fields[0], true
}

type commitHeader struct {
	date     time.Time
	author   string
	dead     bool
	commitID string
}

// parseCommitHeader parses a line like
//
//	date: 2011/01/02 10:11:12;  author: alice;  state: Exp;  lines: +1 -0;  commitid: 1004D20;
func parseCommitHeader(line string) (*commitHeader, error) {
	result := &commitHeader{}

	hasDate := false
	for _, field := range strings.Split(line, ";") {
		key, value, ok := strings.Cut(strings.TrimSpace(field), ":")
		if !ok {
			continue
		}

		value = strings.TrimSpace(value)

		switch strings.TrimSpace(key) {
		case "date":
			date, err := parseDate(value)
			if err != nil {
				return nil, err
			}

			result.date = date
			hasDate = true

		case "author":
			result.author = value

		case "state":
			result.dead = value == "dead"

		case "commitid":
			result.commitID = value
		}
	}

	if !hasDate {
		return nil, errors.Wrapf(ErrMalformedTimestamp, "no date in %q", line)
	}

	return result, nil
}
