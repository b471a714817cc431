package filters

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/pescuma/cvschanges/lib/model"
)

// ParseFileFilter parses a rule matched against the name of the file relative to the repository root.
//
//	src/**/*.c       glob
//	re:\.bak$        regular expression
//	!rule            negation
//	a|b  a&b         or, and
func ParseFileFilter(rule string) (FileFilter, error) {
	rule = strings.TrimSpace(rule)

	switch {
	case rule == "":
		return func(file *model.File) bool {
			return true
		}, nil

	case strings.Index(rule, "|") >= 0:
		clauses, err := ParseFileFilterList(strings.Split(rule, "|"))
		if err != nil {
			return nil, err
		}

		return Any(clauses...), nil

	case strings.Index(rule, "&") >= 0:
		clauses, err := ParseFileFilterList(strings.Split(rule, "&"))
		if err != nil {
			return nil, err
		}

		return func(file *model.File) bool {
			result := true
			for _, f := range clauses {
				result = result && f(file)
			}
			return result
		}, nil

	case strings.HasPrefix(rule, "!"):
		f, err := ParseFileFilter(rule[1:])
		if err != nil {
			return nil, err
		}

		return func(file *model.File) bool {
			return !f(file)
		}, nil

	case strings.HasPrefix(rule, "re:"):
		re, err := regexp.Compile(strings.TrimPrefix(rule, "re:"))
		if err != nil {
			return nil, errors.Wrapf(err, "invalid file RE: %v", rule)
		}

		return func(file *model.File) bool {
			return re.MatchString(file.Name)
		}, nil

	default:
		if !doublestar.ValidatePattern(rule) {
			return nil, fmt.Errorf("invalid file glob: %v", rule)
		}

		return func(file *model.File) bool {
			m, err := doublestar.Match(rule, file.Name)
			return err == nil && m
		}, nil
	}
}

func ParseFileFilterList(rules []string) ([]FileFilter, error) {
	result := make([]FileFilter, 0, len(rules))

	for _, rule := range rules {
		if strings.TrimSpace(rule) == "" {
			return nil, errors.New("empty clause")
		}

		f, err := ParseFileFilter(rule)
		if err != nil {
			return nil, err
		}

		result = append(result, f)
	}

	return result, nil
}

// ParseExcludedRegions returns a filter matching files that match any of the rules,
// or nil if there are no rules.
func ParseExcludedRegions(rules []string) (FileFilter, error) {
	rules = lo.Filter(rules, func(r string, _ int) bool { return strings.TrimSpace(r) != "" })
	if len(rules) == 0 {
		return nil, nil
	}

	clauses, err := ParseFileFilterList(rules)
	if err != nil {
		return nil, err
	}

	return Any(clauses...), nil
}

func Any(clauses ...FileFilter) FileFilter {
	return func(file *model.File) bool {
		for _, f := range clauses {
			if f(file) {
				return true
			}
		}
		return false
	}
}
