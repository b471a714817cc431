package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocationString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "HEAD", MainlineLocation().String())
	assert.Equal(t, "branch:dev", BranchLocation("dev", false).String())
	assert.Equal(t, "tag:REL_1", TagLocation("REL_1", true).String())
	assert.True(t, Location{}.IsMainline())
}

func TestParseLocationType(t *testing.T) {
	t.Parallel()

	for text, expected := range map[string]LocationType{"": Mainline, "HEAD": Mainline, "Branch": Branch, "tag": Tag} {
		lt, err := ParseLocationType(text)
		require.NoError(t, err, text)
		assert.Equal(t, expected, lt, text)
	}

	_, err := ParseLocationType("trunk")
	assert.Error(t, err)
}

func TestCommitSameChange(t *testing.T) {
	t.Parallel()

	date := time.Date(2011, 1, 2, 10, 11, 12, 0, time.UTC)

	a := NewCommit(date, "alice")
	a.Message = "msg"
	b := NewCommit(date.In(time.FixedZone("X", 3600)), "alice")
	b.Message = "msg"
	b.CommitID = "other"

	assert.True(t, a.SameChange(b))

	b.Author = "bob"
	assert.False(t, a.SameChange(b))
}

func TestCommitCountDeleted(t *testing.T) {
	t.Parallel()

	dead := NewFile("b", "/r/b", "1.2")
	dead.Dead = true

	c := NewCommit(time.Now(), "alice")
	c.AddFiles(NewFile("a", "/r/a", "1.1"), dead)

	assert.Equal(t, 1, c.CountDeleted())
}

func TestFileClone(t *testing.T) {
	t.Parallel()

	f := NewFile("a", "/r/a", "1.2")
	f.PrevRevision = "1.1"

	c := f.Clone()
	c.Revision = "1.3"

	assert.Equal(t, "1.2", f.Revision)
	assert.True(t, c.HasPrevRevision())
	assert.False(t, NewFile("a", "/r/a", "1.1").HasPrevRevision())
}

func TestChangeSetFiles(t *testing.T) {
	t.Parallel()

	cs := NewChangeSet()

	assert.True(t, cs.AddFile(NewFile("b", "/r/b", "1.2")))
	assert.True(t, cs.AddFile(NewFile("a", "/r/a", "1.1")))
	assert.False(t, cs.AddFile(NewFile("b", "/r/b", "1.1")))

	files := cs.ListFiles()
	require.Len(t, files, 2)
	assert.Equal(t, "/r/a", files[0].FullName)
	assert.Equal(t, "1.2", cs.GetFile("/r/b").Revision)
	assert.Nil(t, cs.GetFile("/r/c"))
}

func TestChangeSetNames(t *testing.T) {
	t.Parallel()

	cs := NewChangeSet()
	cs.BranchNames.Insert("dev")
	cs.BranchNames.Insert("a-branch")
	cs.TagNames.Insert("REL_1")

	assert.Equal(t, []string{"a-branch", "dev"}, cs.ListBranchNames())
	assert.Equal(t, []string{"REL_1"}, cs.ListTagNames())
}

func TestChangeSetPeriod(t *testing.T) {
	t.Parallel()

	cs := NewChangeSet()
	assert.True(t, cs.IsEmpty())

	first, last := cs.Period()
	assert.True(t, first.IsZero())
	assert.True(t, last.IsZero())

	d1 := time.Date(2011, 1, 2, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2011, 3, 1, 0, 0, 0, 0, time.UTC)
	cs.Commits = []*Commit{NewCommit(d2, "a"), NewCommit(d1, "b")}

	first, last = cs.Period()
	assert.Equal(t, d1, first)
	assert.Equal(t, d2, last)
	assert.False(t, cs.IsEmpty())
}

func TestChangeSets(t *testing.T) {
	t.Parallel()

	css := NewChangeSets()

	older := NewChangeSet()
	older.ParsedAt = time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := NewChangeSet()
	newer.ParsedAt = time.Date(2023, 2, 1, 0, 0, 0, 0, time.UTC)

	css.Add(older)
	css.Add(newer)

	assert.NotEmpty(t, older.ID)
	assert.NotEqual(t, older.ID, newer.ID)
	assert.Equal(t, 2, css.Count())
	assert.Equal(t, []*ChangeSet{newer, older}, css.List())
	assert.Same(t, older, css.Get(older.ID))

	assert.True(t, css.Remove(older.ID))
	assert.False(t, css.Remove(older.ID))
	assert.Nil(t, css.Get(older.ID))
}
