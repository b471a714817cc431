package filters

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/pescuma/cvschanges/lib/model"
)

type CommitFilter func(*model.Commit) bool

// ParseCommitFilter parses a rule used to select commits of a stored change set.
//
//	author:<string filter>
//	msg:<string filter>
//	file:<file rule>
//	deleted
//	!rule, a|b, a&b
func ParseCommitFilter(rule string) (CommitFilter, error) {
	rule = strings.TrimSpace(rule)

	switch {
	case rule == "":
		return func(commit *model.Commit) bool {
			return true
		}, nil

	case strings.Index(rule, "|") >= 0:
		clauses, err := parseCommitClauses(strings.Split(rule, "|"))
		if err != nil {
			return nil, err
		}

		return func(commit *model.Commit) bool {
			result := false
			for _, f := range clauses {
				result = result || f(commit)
			}
			return result
		}, nil

	case strings.Index(rule, "&") >= 0:
		clauses, err := parseCommitClauses(strings.Split(rule, "&"))
		if err != nil {
			return nil, err
		}

		return func(commit *model.Commit) bool {
			result := true
			for _, f := range clauses {
				result = result && f(commit)
			}
			return result
		}, nil

	case strings.HasPrefix(rule, "!"):
		f, err := ParseCommitFilter(rule[1:])
		if err != nil {
			return nil, err
		}

		return func(commit *model.Commit) bool {
			return !f(commit)
		}, nil

	case rule == "deleted":
		return func(commit *model.Commit) bool {
			return commit.CountDeleted() > 0
		}, nil

	case strings.HasPrefix(rule, "msg:"):
		f, err := ParseStringFilter("re:" + strings.TrimPrefix(rule, "msg:"))
		if err != nil {
			return nil, err
		}

		return func(commit *model.Commit) bool {
			return f(commit.Message)
		}, nil

	case strings.HasPrefix(rule, "file:"):
		f, err := ParseFileFilter(strings.TrimPrefix(rule, "file:"))
		if err != nil {
			return nil, err
		}

		return func(commit *model.Commit) bool {
			for _, file := range commit.Files {
				if f(file) {
					return true
				}
			}
			return false
		}, nil

	default:
		f, err := ParseStringFilter(strings.TrimPrefix(rule, "author:"))
		if err != nil {
			return nil, err
		}

		return func(commit *model.Commit) bool {
			return f(commit.Author)
		}, nil
	}
}

func parseCommitClauses(split []string) ([]CommitFilter, error) {
	result := make([]CommitFilter, 0, len(split))

	for _, fi := range split {
		fi = strings.TrimSpace(fi)
		if fi == "" {
			return nil, errors.New("empty clause")
		}

		f, err := ParseCommitFilter(fi)
		if err != nil {
			return nil, err
		}

		result = append(result, f)
	}

	return result, nil
}
