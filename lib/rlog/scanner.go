package rlog

import (
	"fmt"
	"strings"

	"github.com/pescuma/cvschanges/lib/model"
)

type state int

const (
	expectFileName state = iota
	expectFileNamePreviousLine
	expectBranchOrTagNames
	expectFirstRevision
	expectCommitHeader
	expectCommitComment
)

func (s state) String() string {
	switch s {
	case expectFileName:
		return "ExpectFileName"
	case expectFileNamePreviousLine:
		return "ExpectFileNamePreviousLine"
	case expectBranchOrTagNames:
		return "ExpectBranchOrTagNames"
	case expectFirstRevision:
		return "ExpectFirstRevision"
	case expectCommitHeader:
		return "ExpectCommitHeader"
	case expectCommitComment:
		return "ExpectCommitComment"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// rawFile is the state of the file section being scanned.
type rawFile struct {
	name         string
	fullName     string
	revision     string
	prevRevision string
	dead         bool
}

func (f *rawFile) toFile() *model.File {
	return &model.File{
		Name:         f.name,
		FullName:     f.fullName,
		Revision:     f.revision,
		PrevRevision: f.prevRevision,
		Dead:         f.dead,
	}
}

// events receives what the scanner finds, in report order.
type events interface {
	fileStarted(fullName, name string)
	symbolicName(name, revision string)
	commitFinished(commit *model.Commit, file *model.File) error
	fileFinished()
}

// scanner classifies the lines of a rlog report, one at a time.
type scanner struct {
	root   string
	events events

	state  state
	window window
	line   int

	file    *rawFile
	commit  *model.Commit
	comment strings.Builder
	// commentLines is the number of lines already in comment
	commentLines int
	inSymbols    bool
}

func newScanner(root string, events events) *scanner {
	return &scanner{
		root:   root,
		events: events,
		state:  expectFileName,
	}
}

func (s *scanner) scanLine(text string) error {
	s.line++

	for {
		reprocess, err := s.step(text)
		if err != nil {
			return &ParseError{Line: s.line, Text: text, Err: err}
		}

		if !reprocess {
			return nil
		}
	}
}

// step handles one line in the current state. It returns true if the line must be
// handled again in the new state.
func (s *scanner) step(line string) (bool, error) {
	switch s.state {
	case expectFileName:
		return false, s.onFileName(line)
	case expectFileNamePreviousLine:
		return false, s.onFileNamePreviousLine(line)
	case expectBranchOrTagNames:
		return false, s.onBranchOrTagNames(line)
	case expectFirstRevision:
		return false, s.onFirstRevision(line)
	case expectCommitHeader:
		return false, s.onCommitHeader(line)
	case expectCommitComment:
		return s.onCommitComment(line)
	default:
		panic(fmt.Sprintf("unknown state: %v", s.state))
	}
}

func (s *scanner) onFileName(line string) error {
	fullName, name, ok := parseFileName(line, s.root)
	if !ok {
		// Banner lines before the first file
		return nil
	}

	s.startFile(fullName, name)
	return nil
}

// onFileNamePreviousLine handles the file name line that confirmed the end of the previous file.
func (s *scanner) onFileNamePreviousLine(line string) error {
	fullName, name, ok := parseFileName(line, s.root)
	if !ok {
		return structuralViolation("expected %v line", rcsFilePrefix)
	}

	s.startFile(fullName, name)
	return nil
}

func (s *scanner) startFile(fullName, name string) {
	s.file = &rawFile{
		name:     name,
		fullName: fullName,
	}
	s.inSymbols = false
	s.state = expectBranchOrTagNames

	s.events.fileStarted(fullName, name)
}

func (s *scanner) onBranchOrTagNames(line string) error {
	switch {
	case strings.HasPrefix(line, "\t"):
		if !s.inSymbols {
			// Lock holders and access list entries are indented too
			return nil
		}

		name, revision, ok := parseSymbolicName(line)
		if ok {
			s.events.symbolicName(name, revision)
		}

	case strings.HasPrefix(line, symbolicNamesPrefix):
		s.inSymbols = true

	case strings.HasPrefix(line, keywordSubstitutionPrefix):
		s.inSymbols = false
		s.state = expectFirstRevision

	case strings.HasPrefix(line, rcsFilePrefix), strings.HasPrefix(line, revisionPrefix):
		return structuralViolation("%v found before %v", strings.TrimSpace(line), keywordSubstitutionPrefix)

	default:
		s.inSymbols = false
	}

	return nil
}

func (s *scanner) onFirstRevision(line string) error {
	if revision, ok := parseRevision(line); ok {
		s.file.revision = revision
		s.state = expectCommitHeader
		return nil
	}

	if line == fileDivider {
		s.finishFile()
	}

	return nil
}

func (s *scanner) onCommitHeader(line string) error {
	switch {
	case strings.HasPrefix(line, datePrefix):
		header, err := parseCommitHeader(line)
		if err != nil {
			return err
		}

		s.commit = model.NewCommit(header.date, header.author)
		s.commit.CommitID = header.commitID
		s.file.dead = header.dead
		s.comment.Reset()
		s.commentLines = 0
		s.state = expectCommitComment

	case strings.HasPrefix(line, revisionPrefix):
		return structuralViolation("revision %v has no commit header", s.file.revision)
	}

	return nil
}

func (s *scanner) onCommitComment(line string) (bool, error) {
	switch {
	case s.window.len() == 0:
		if line == commitDivider || line == fileDivider {
			s.window.push(line)
			return false, nil
		}

		if s.commentLines == 0 && strings.HasPrefix(line, branchesPrefix) {
			// Part of the header, lists branches rooted at this revision
			return false, nil
		}

		s.appendComment(line)
		return false, nil

	case s.window.is(commitDivider):
		revision, ok := parseRevision(line)
		if !ok {
			s.releaseWindow()
			return true, nil
		}

		s.window.reset()

		err := s.finishCommit(revision)
		if err != nil {
			return false, err
		}

		s.file = &rawFile{
			name:     s.file.name,
			fullName: s.file.fullName,
			revision: revision,
		}
		s.state = expectCommitHeader
		return false, nil

	case s.window.is(fileDivider):
		if line != "" {
			s.releaseWindow()
			return true, nil
		}

		s.window.push(line)
		return false, nil

	default:
		if !strings.HasPrefix(line, rcsFilePrefix) {
			s.releaseWindow()
			return true, nil
		}

		s.window.reset()

		err := s.finishCommit("")
		if err != nil {
			return false, err
		}

		s.finishFile()

		s.state = expectFileNamePreviousLine
		return true, nil
	}
}

// finish handles the end of the report.
func (s *scanner) finish() error {
	switch s.state {
	case expectCommitComment:
		if !s.window.is(fileDivider) && !s.window.is(fileDivider, "") {
			s.releaseWindow()
		}
		s.window.reset()

		err := s.finishCommit("")
		if err != nil {
			return &ParseError{Line: s.line, Err: err}
		}

		s.finishFile()

	case expectCommitHeader:
		return &ParseError{
			Line: s.line,
			Err:  structuralViolation("report ended before the header of revision %v", s.file.revision),
		}
	}

	return nil
}

func (s *scanner) releaseWindow() {
	for _, l := range s.window.drain() {
		s.appendComment(l)
	}
}

func (s *scanner) appendComment(line string) {
	if s.commentLines > 0 {
		s.comment.WriteString("\n")
	}

	s.comment.WriteString(line)
	s.commentLines++
}

// finishCommit sends the current commit to the events. prevRevision is the revision
// listed after it, or empty if it is the oldest one of the file.
func (s *scanner) finishCommit(prevRevision string) error {
	s.file.prevRevision = prevRevision

	commit := s.commit
	commit.Message = s.comment.String()

	s.commit = nil
	s.comment.Reset()
	s.commentLines = 0

	return s.events.commitFinished(commit, s.file.toFile())
}

func (s *scanner) finishFile() {
	s.events.fileFinished()

	s.file = nil
	s.state = expectFileName
}
