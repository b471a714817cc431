package rlog

import (
	"strings"
	"testing"

	"github.com/bloomberg/go-testgroup"
	"github.com/pkg/errors"

	"github.com/pescuma/cvschanges/lib/model"
)

type recordedCommit struct {
	commit *model.Commit
	file   *model.File
}

type recorder struct {
	files    []string
	symbols  []string
	commits  []recordedCommit
	finished int
}

func (r *recorder) fileStarted(fullName, name string) {
	r.files = append(r.files, fullName+" "+name)
}

func (r *recorder) symbolicName(name, revision string) {
	r.symbols = append(r.symbols, name+" "+revision)
}

func (r *recorder) commitFinished(commit *model.Commit, file *model.File) error {
	r.commits = append(r.commits, recordedCommit{commit, file})
	return nil
}

func (r *recorder) fileFinished() {
	r.finished++
}

func scanLines(lines ...string) (*scanner, *recorder, error) {
	r := &recorder{}
	s := newScanner("/cvsroot", r)

	for _, l := range lines {
		err := s.scanLine(l)
		if err != nil {
			return s, r, err
		}
	}

	return s, r, s.finish()
}

var fileHeader = []string{
	"",
	"RCS file: /cvsroot/m/a.txt,v",
	"head: 1.2",
	"branch:",
	"locks: strict",
	"access list:",
	"symbolic names:",
	"\tdev: 1.1.0.2",
	"\tv1: 1.1",
	"keyword substitution: kv",
	"total revisions: 2;\tselected revisions: 2",
	"description:",
}

func withHeader(lines ...string) []string {
	return append(append([]string{}, fileHeader...), lines...)
}

func TestScanner(t *testing.T) {
	testgroup.RunInParallel(t, &ScannerTests{})
}

type ScannerTests struct {
}

func (g *ScannerTests) IgnoresBannerBeforeFirstFile(t *testgroup.T) {
	s, r, err := scanLines("cvs rlog: Logging m", "something else")

	t.NoError(err)
	t.Equal(expectFileName, s.state)
	t.Empty(r.files)
}

func (g *ScannerTests) FileNameStartsFile(t *testgroup.T) {
	s, r, err := scanLines("RCS file: /cvsroot/m/a.txt,v")

	t.NoError(err)
	t.Equal(expectBranchOrTagNames, s.state)
	t.Equal([]string{"/cvsroot/m/a.txt m/a.txt"}, r.files)
}

func (g *ScannerTests) SymbolicNamesUntilKeywordSubstitution(t *testgroup.T) {
	s, r, err := scanLines(fileHeader...)

	t.NoError(err)
	t.Equal(expectFirstRevision, s.state)
	t.Equal([]string{"dev 1.1.0.2", "v1 1.1"}, r.symbols)
}

func (g *ScannerTests) IgnoresIndentedLocks(t *testgroup.T) {
	_, r, err := scanLines(
		"RCS file: /cvsroot/m/a.txt,v",
		"locks: strict",
		"\tjoe: 1.2",
		"access list:",
		"\tjoe",
		"symbolic names:",
		"\tv1: 1.1",
		"keyword substitution: kv",
	)

	t.NoError(err)
	t.Equal([]string{"v1 1.1"}, r.symbols)
}

func (g *ScannerTests) FileWithoutRevisions(t *testgroup.T) {
	s, r, err := scanLines(withHeader(fileDivider)...)

	t.NoError(err)
	t.Equal(expectFileName, s.state)
	t.Empty(r.commits)
	t.Equal(1, r.finished)
}

func (g *ScannerTests) RevisionThenHeader(t *testgroup.T) {
	lines := withHeader(commitDivider, "revision 1.2")

	s, _, err := scanLinesNoFinish(lines...)
	t.NoError(err)
	t.Equal(expectCommitHeader, s.state)
	t.Equal("1.2", s.file.revision)

	t.NoError(s.scanLine("date: 2011/01/02 10:11:12;  author: alice;  state: dead;"))
	t.Equal(expectCommitComment, s.state)
	t.True(s.file.dead)
	t.Equal("alice", s.commit.Author)
}

func (g *ScannerTests) RealCommitDivider(t *testgroup.T) {
	_, r, err := scanLines(withHeader(
		commitDivider,
		"revision 1.2",
		"date: 2011/01/02 10:11:12;  author: alice;  state: Exp;",
		"second",
		commitDivider,
		"revision 1.1",
		"date: 2011/01/01 10:11:12;  author: bob;  state: Exp;",
		"first",
		fileDivider,
	)...)

	t.NoError(err)
	t.Require.Len(r.commits, 2)

	t.Equal("second", r.commits[0].commit.Message)
	t.Equal("1.2", r.commits[0].file.Revision)
	t.Equal("1.1", r.commits[0].file.PrevRevision)

	t.Equal("first", r.commits[1].commit.Message)
	t.Equal("1.1", r.commits[1].file.Revision)
	t.False(r.commits[1].file.HasPrevRevision())
	t.Equal(1, r.finished)
}

func (g *ScannerTests) CommitDividerInsideComment(t *testgroup.T) {
	_, r, err := scanLines(withHeader(
		commitDivider,
		"revision 1.1",
		"date: 2011/01/02 10:11:12;  author: alice;  state: Exp;",
		"before",
		commitDivider,
		"after",
		fileDivider,
	)...)

	t.NoError(err)
	t.Require.Len(r.commits, 1)
	t.Equal("before\n"+commitDivider+"\nafter", r.commits[0].commit.Message)
}

func (g *ScannerTests) TwoCommitDividersInsideComment(t *testgroup.T) {
	_, r, err := scanLines(withHeader(
		commitDivider,
		"revision 1.1",
		"date: 2011/01/02 10:11:12;  author: alice;  state: Exp;",
		"before",
		commitDivider,
		commitDivider,
		"after",
		fileDivider,
	)...)

	t.NoError(err)
	t.Require.Len(r.commits, 1)
	t.Equal("before\n"+commitDivider+"\n"+commitDivider+"\nafter", r.commits[0].commit.Message)
}

func (g *ScannerTests) FileDividerInsideComment(t *testgroup.T) {
	_, r, err := scanLines(withHeader(
		commitDivider,
		"revision 1.1",
		"date: 2011/01/02 10:11:12;  author: alice;  state: Exp;",
		"a",
		fileDivider,
		"b",
		fileDivider,
		"",
		"c",
		fileDivider,
	)...)

	t.NoError(err)
	t.Require.Len(r.commits, 1)
	t.Equal("a\n"+fileDivider+"\nb\n"+fileDivider+"\n\nc", r.commits[0].commit.Message)
}

func (g *ScannerTests) FileDividerThenNextFile(t *testgroup.T) {
	lines := withHeader(
		commitDivider,
		"revision 1.1",
		"date: 2011/01/02 10:11:12;  author: alice;  state: Exp;",
		"a",
		fileDivider,
		"",
		"RCS file: /cvsroot/m/b.txt,v",
	)

	s, r, err := scanLinesNoFinish(lines...)

	t.NoError(err)
	t.Equal(expectBranchOrTagNames, s.state)
	t.Equal(0, s.window.len())
	t.Equal([]string{"/cvsroot/m/a.txt m/a.txt", "/cvsroot/m/b.txt m/b.txt"}, r.files)
	t.Require.Len(r.commits, 1)
	t.Equal("a", r.commits[0].commit.Message)
	t.Equal(1, r.finished)
}

func (g *ScannerTests) FileDividerAtEndOfReport(t *testgroup.T) {
	for _, end := range [][]string{{fileDivider}, {fileDivider, ""}} {
		lines := withHeader(
			commitDivider,
			"revision 1.1",
			"date: 2011/01/02 10:11:12;  author: alice;  state: Exp;",
			"a",
		)

		_, r, err := scanLines(append(lines, end...)...)

		t.NoError(err)
		t.Require.Len(r.commits, 1)
		t.Equal("a", r.commits[0].commit.Message)
	}
}

func (g *ScannerTests) MultiLineComment(t *testgroup.T) {
	_, r, err := scanLines(withHeader(
		commitDivider,
		"revision 1.1",
		"date: 2011/01/02 10:11:12;  author: alice;  state: Exp;",
		"branches:  1.1.2;",
		"first",
		"",
		"third",
		fileDivider,
	)...)

	t.NoError(err)
	t.Require.Len(r.commits, 1)
	t.Equal("first\n\nthird", r.commits[0].commit.Message)
}

func (g *ScannerTests) MalformedTimestamp(t *testgroup.T) {
	_, _, err := scanLines(withHeader(
		commitDivider,
		"revision 1.1",
		"date: someday;  author: alice;  state: Exp;",
	)...)

	t.True(errors.Is(err, ErrMalformedTimestamp))

	var perr *ParseError
	t.Require.True(errors.As(err, &perr))
	t.Equal(len(fileHeader)+3, perr.Line)
	t.True(strings.HasPrefix(perr.Text, "date:"))
}

func (g *ScannerTests) RevisionWithoutHeader(t *testgroup.T) {
	_, _, err := scanLines(withHeader(
		commitDivider,
		"revision 1.2",
		"revision 1.1",
	)...)

	t.True(errors.Is(err, ErrStructuralViolation))
}

func (g *ScannerTests) RevisionBeforeKeywordSubstitution(t *testgroup.T) {
	_, _, err := scanLines(
		"RCS file: /cvsroot/m/a.txt,v",
		"symbolic names:",
		"revision 1.1",
	)

	t.True(errors.Is(err, ErrStructuralViolation))
}

func (g *ScannerTests) ReportEndsBeforeHeader(t *testgroup.T) {
	_, _, err := scanLines(withHeader(commitDivider, "revision 1.1")...)

	t.True(errors.Is(err, ErrStructuralViolation))
}

func (g *ScannerTests) FileNamePreviousLineRequiresFileName(t *testgroup.T) {
	s := newScanner("/cvsroot", &recorder{})
	s.state = expectFileNamePreviousLine

	err := s.scanLine("not a file")

	t.True(errors.Is(err, ErrStructuralViolation))
}

func (g *ScannerTests) StateNames(t *testgroup.T) {
	t.Equal("ExpectFileName", expectFileName.String())
	t.Equal("ExpectCommitComment", expectCommitComment.String())
	t.Equal("state(42)", state(42).String())
}

func scanLinesNoFinish(lines ...string) (*scanner, *recorder, error) {
	r := &recorder{}
	s := newScanner("/cvsroot", r)

	for _, l := range lines {
		err := s.scanLine(l)
		if err != nil {
			return s, r, err
		}
	}

	return s, r, nil
}
