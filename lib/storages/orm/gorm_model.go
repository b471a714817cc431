package orm

import (
	"time"

	"github.com/pescuma/cvschanges/lib/model"
)

type sqlChangeSet struct {
	ID                model.UUID `gorm:"primaryKey"`
	Root              string
	LocationType      model.LocationType
	LocationName      string
	UseHeadIfNotFound bool
	ParsedAt          time.Time
	Branches          []string `gorm:"serializer:json"`
	Tags              []string `gorm:"serializer:json"`
	CommitCount       int
	FileCount         int

	CreatedAt time.Time
	UpdatedAt time.Time
}

func newSqlChangeSet(cs *model.ChangeSet) *sqlChangeSet {
	return &sqlChangeSet{
		ID:                cs.ID,
		Root:              cs.Root,
		LocationType:      cs.Location.Type,
		LocationName:      cs.Location.Name,
		UseHeadIfNotFound: cs.Location.UseHeadIfNotFound,
		ParsedAt:          cs.ParsedAt,
		Branches:          cs.ListBranchNames(),
		Tags:              cs.ListTagNames(),
		CommitCount:       len(cs.Commits),
		FileCount:         len(cs.Files),
	}
}

type sqlCommit struct {
	ChangeSetID model.UUID `gorm:"primaryKey"`
	Position    int        `gorm:"primaryKey;autoIncrement:false"`
	Date        time.Time
	Author      string `gorm:"index"`
	Message     string
	CommitID    string
}

func newSqlCommit(cs model.UUID, position int, c *model.Commit) *sqlCommit {
	return &sqlCommit{
		ChangeSetID: cs,
		Position:    position,
		Date:        c.Date,
		Author:      c.Author,
		Message:     c.Message,
		CommitID:    c.CommitID,
	}
}

type sqlCommitFile struct {
	ChangeSetID    model.UUID `gorm:"primaryKey"`
	CommitPosition int        `gorm:"primaryKey;autoIncrement:false"`
	FullName       string     `gorm:"primaryKey"`
	Revision       string     `gorm:"primaryKey"`
	FilePosition   int
	Name           string
	PrevRevision   string
	Dead           bool
}

func newSqlCommitFile(cs model.UUID, position, filePosition int, f *model.File) *sqlCommitFile {
	return &sqlCommitFile{
		ChangeSetID:    cs,
		CommitPosition: position,
		FullName:       f.FullName,
		Revision:       f.Revision,
		FilePosition:   filePosition,
		Name:           f.Name,
		PrevRevision:   f.PrevRevision,
		Dead:           f.Dead,
	}
}

type sqlFile struct {
	ChangeSetID  model.UUID `gorm:"primaryKey"`
	FullName     string     `gorm:"primaryKey"`
	Name         string     `gorm:"index"`
	Revision     string
	PrevRevision string
	Dead         bool
}

func newSqlFile(cs model.UUID, f *model.File) *sqlFile {
	return &sqlFile{
		ChangeSetID:  cs,
		FullName:     f.FullName,
		Name:         f.Name,
		Revision:     f.Revision,
		PrevRevision: f.PrevRevision,
		Dead:         f.Dead,
	}
}

func toModelFile(name, fullName, revision, prevRevision string, dead bool) *model.File {
	result := model.NewFile(name, fullName, revision)
	result.PrevRevision = prevRevision
	result.Dead = dead
	return result
}
