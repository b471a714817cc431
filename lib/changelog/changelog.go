package changelog

import (
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp/go-set/v2"
	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/pescuma/cvschanges/lib/model"
)

// Log is the persisted form of a change set.
type Log struct {
	XMLName  xml.Name  `xml:"changelog" yaml:"-"`
	ID       string    `xml:"id,attr,omitempty" yaml:"id,omitempty"`
	Root     string    `xml:"root,attr" yaml:"root"`
	Location string    `xml:"location,attr" yaml:"location"`
	UseHead  bool      `xml:"useHeadIfNotFound,attr,omitempty" yaml:"useHeadIfNotFound,omitempty"`
	ParsedAt time.Time `xml:"parsedAt,attr" yaml:"parsedAt,omitempty"`

	Entries  []*Entry `xml:"entry" yaml:"entries"`
	Files    []*File  `xml:"files>file" yaml:"files"`
	Branches []string `xml:"branches>name" yaml:"branches"`
	Tags     []string `xml:"tags>name" yaml:"tags"`
}

type Entry struct {
	Date     time.Time `xml:"changeDate" yaml:"changeDate"`
	Author   string    `xml:"author" yaml:"author"`
	CommitID string    `xml:"commitid,omitempty" yaml:"commitid,omitempty"`
	Message  string    `xml:"msg" yaml:"msg"`
	Files    []*File   `xml:"file" yaml:"files"`
}

type File struct {
	Name         string `xml:"name" yaml:"name"`
	FullName     string `xml:"fullName" yaml:"fullName"`
	Revision     string `xml:"revision" yaml:"revision"`
	PrevRevision string `xml:"prevrevision,omitempty" yaml:"prevrevision,omitempty"`
	Dead         bool   `xml:"dead,omitempty" yaml:"dead,omitempty"`
}

func FromChangeSet(cs *model.ChangeSet) *Log {
	result := &Log{
		ID:       string(cs.ID),
		Root:     cs.Root,
		Location: cs.Location.String(),
		UseHead:  cs.Location.UseHeadIfNotFound,
		ParsedAt: cs.ParsedAt,
		Branches: cs.ListBranchNames(),
		Tags:     cs.ListTagNames(),
	}

	result.Entries = lo.Map(cs.Commits, func(c *model.Commit, _ int) *Entry {
		return &Entry{
			Date:     c.Date,
			Author:   c.Author,
			CommitID: c.CommitID,
			Message:  c.Message,
			Files:    lo.Map(c.Files, toFile),
		}
	})

	result.Files = lo.Map(cs.ListFiles(), toFile)

	return result
}

func toFile(f *model.File, _ int) *File {
	return &File{
		Name:         f.Name,
		FullName:     f.FullName,
		Revision:     f.Revision,
		PrevRevision: f.PrevRevision,
		Dead:         f.Dead,
	}
}

func (f *File) toModel() *model.File {
	result := model.NewFile(f.Name, f.FullName, f.Revision)
	result.PrevRevision = f.PrevRevision
	result.Dead = f.Dead
	return result
}

func (l *Log) ToChangeSet() (*model.ChangeSet, error) {
	location, err := ParseLocation(l.Location, l.UseHead)
	if err != nil {
		return nil, err
	}

	result := model.NewChangeSet()
	result.ID = model.UUID(l.ID)
	result.Root = l.Root
	result.Location = location
	result.ParsedAt = l.ParsedAt

	for _, e := range l.Entries {
		commit := model.NewCommit(e.Date, e.Author)
		commit.CommitID = e.CommitID
		commit.Message = e.Message
		for _, f := range e.Files {
			commit.AddFiles(f.toModel())
		}
		result.Commits = append(result.Commits, commit)
	}

	for _, f := range l.Files {
		if !result.AddFile(f.toModel()) {
			return nil, errors.Errorf("duplicated file in change log: %v", f.FullName)
		}
	}

	result.BranchNames = set.From(l.Branches)
	result.TagNames = set.From(l.Tags)

	return result, nil
}

// ParseLocation parses the output of model.Location.String.
func ParseLocation(text string, useHeadIfNotFound bool) (model.Location, error) {
	typeName, name, found := strings.Cut(text, ":")

	t, err := model.ParseLocationType(typeName)
	if err != nil {
		return model.Location{}, err
	}

	switch {
	case t == model.Mainline && found:
		return model.Location{}, fmt.Errorf("invalid location: %v", text)
	case t != model.Mainline && name == "":
		return model.Location{}, fmt.Errorf("missing name in location: %v", text)
	}

	return model.Location{Type: t, Name: name, UseHeadIfNotFound: useHeadIfNotFound}, nil
}
