package rlog

import (
	"bufio"
	"io"
	"strings"

	"github.com/pkg/errors"

	"github.com/pescuma/cvschanges/lib/consoles"
	"github.com/pescuma/cvschanges/lib/filters"
	"github.com/pescuma/cvschanges/lib/metrics"
	"github.com/pescuma/cvschanges/lib/model"
)

// Lines is a sequence of report lines. It is implemented by *bufio.Scanner.
type Lines interface {
	Scan() bool
	Text() string
	Err() error
}

type Options struct {
	// Root is the CVSROOT connection string used to create the report
	Root     string
	Location model.Location
	// Exclude removes matching files from the change set
	Exclude filters.FileFilter

	Console consoles.Console
	Metrics *metrics.Metrics
}

// maxLineSize is the longest line accepted by ParseReader and ParseString.
const maxLineSize = 1024 * 1024

func ParseString(text string, opts *Options) (*model.ChangeSet, error) {
	return ParseReader(strings.NewReader(text), opts)
}

func ParseReader(r io.Reader, opts *Options) (*model.ChangeSet, error) {
	lines := bufio.NewScanner(r)
	lines.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	return Parse(lines, opts)
}

// Parse reads the whole report and returns the change set for opts.Location.
// Any error aborts the parse; there is no partial result.
func Parse(lines Lines, opts *Options) (*model.ChangeSet, error) {
	if opts == nil {
		opts = &Options{}
	}

	p := newParser(opts)

	result, err := p.parse(lines)

	opts.Metrics.ParseFinished(metricsResult(err), p.scanner.line, len(p.acc.commits), len(p.acc.files))

	if err != nil {
		return nil, err
	}

	if opts.Console != nil {
		opts.Console.Printf("Parsed %v lines: %v files, %v commits, %v branches, %v tags\n",
			p.scanner.line, len(result.Files), len(result.Commits), result.BranchNames.Size(), result.TagNames.Size())
	}

	return result, nil
}

// parser connects the scanner to the resolver, the location filter and the accumulator.
type parser struct {
	opts     *Options
	scanner  *scanner
	resolver *resolver
	filter   *locationFilter
	acc      *accumulator
}

func newParser(opts *Options) *parser {
	p := &parser{
		opts:     opts,
		resolver: newResolver(),
		acc:      newAccumulator(opts.Exclude),
	}
	p.filter = newLocationFilter(opts.Location, p.resolver)
	p.scanner = newScanner(RepositoryRoot(opts.Root), p)
	return p
}

func (p *parser) parse(lines Lines) (*model.ChangeSet, error) {
	for lines.Scan() {
		err := p.scanner.scanLine(lines.Text())
		if err != nil {
			return nil, err
		}
	}

	if err := lines.Err(); err != nil {
		return nil, errors.Wrap(err, "error reading report")
	}

	err := p.scanner.finish()
	if err != nil {
		return nil, err
	}

	err = p.filter.check()
	if err != nil {
		return nil, err
	}

	return p.assemble(), nil
}

func (p *parser) assemble() *model.ChangeSet {
	result := model.NewChangeSet()
	result.Root = p.opts.Root
	result.Location = p.opts.Location
	result.Files = p.acc.files
	result.Commits = p.acc.commits
	result.BranchNames = p.resolver.branchNames
	result.TagNames = p.resolver.tagNames
	return result
}

func (p *parser) fileStarted(string, string) {
	p.resolver.resetFile()
}

func (p *parser) symbolicName(name, revision string) {
	p.resolver.register(name, revision)
}

func (p *parser) commitFinished(commit *model.Commit, file *model.File) error {
	if !p.filter.accepts(file.Revision) {
		return nil
	}

	commit.AddFiles(file)
	p.acc.add(commit)
	return nil
}

func (p *parser) fileFinished() {
	p.resolver.resetFile()
}

func metricsResult(err error) string {
	switch {
	case err == nil:
		return metrics.ResultOK
	case errors.Is(err, ErrMalformedTimestamp):
		return metrics.ResultMalformedTimestamp
	case errors.Is(err, ErrStructuralViolation):
		return metrics.ResultStructuralViolation
	case errors.Is(err, ErrLocationNotFound):
		return metrics.ResultLocationNotFound
	default:
		return metrics.ResultReadError
	}
}
