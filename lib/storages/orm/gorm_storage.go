package orm

import (
	"log"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/hashicorp/go-set/v2"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/pescuma/cvschanges/lib/consoles"
	"github.com/pescuma/cvschanges/lib/model"
	"github.com/pescuma/cvschanges/lib/storages"
)

type gormStorage struct {
	mutex   sync.RWMutex
	db      *gorm.DB
	console consoles.Console

	changeSets *model.ChangeSets
}

func NewGormStorage(d gorm.Dialector, console consoles.Console) (storages.Storage, error) {
	l := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	db, err := gorm.Open(d, &gorm.Config{
		NamingStrategy: &NamingStrategy{},
		Logger:         l,
	})
	if err != nil {
		return nil, err
	}

	// sqlite serializes writes, and an in memory database lives only as long as its connection
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&sqlChangeSet{},
		&sqlCommit{},
		&sqlCommitFile{},
		&sqlFile{},
	)
	if err != nil {
		return nil, err
	}

	return &gormStorage{
		db:      db,
		console: console,
	}, nil
}

func (s *gormStorage) Close() error {
	db, err := s.db.DB()
	if err != nil {
		return err
	}

	return db.Close()
}

func (s *gormStorage) LoadChangeSets() (*model.ChangeSets, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.changeSets != nil {
		return s.changeSets, nil
	}

	s.console.Printf("Loading change sets...\n")

	var css []*sqlChangeSet
	err := s.db.Find(&css).Error
	if err != nil {
		return nil, err
	}

	var commits []*sqlCommit
	err = s.db.Find(&commits).Error
	if err != nil {
		return nil, err
	}

	var commitFiles []*sqlCommitFile
	err = s.db.Find(&commitFiles).Error
	if err != nil {
		return nil, err
	}

	var files []*sqlFile
	err = s.db.Find(&files).Error
	if err != nil {
		return nil, err
	}

	commitsByCS := lo.GroupBy(commits, func(c *sqlCommit) model.UUID { return c.ChangeSetID })
	commitFilesByCS := lo.GroupBy(commitFiles, func(f *sqlCommitFile) model.UUID { return f.ChangeSetID })
	filesByCS := lo.GroupBy(files, func(f *sqlFile) model.UUID { return f.ChangeSetID })

	result := model.NewChangeSets()
	for _, scs := range css {
		result.Add(toModelChangeSet(scs, commitsByCS[scs.ID], commitFilesByCS[scs.ID], filesByCS[scs.ID]))
	}

	s.changeSets = result
	return result, nil
}

func (s *gormStorage) LoadChangeSet(id model.UUID) (*model.ChangeSet, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if s.changeSets != nil {
		result := s.changeSets.Get(id)
		if result == nil {
			return nil, errors.Wrapf(storages.ErrNotFound, "change set %v", id)
		}
		return result, nil
	}

	var scs sqlChangeSet
	err := s.db.Where("id = ?", id).Limit(1).Find(&scs).Error
	if err != nil {
		return nil, err
	}
	if scs.ID == "" {
		return nil, errors.Wrapf(storages.ErrNotFound, "change set %v", id)
	}

	var commits []*sqlCommit
	err = s.db.Where("change_set_id = ?", id).Find(&commits).Error
	if err != nil {
		return nil, err
	}

	var commitFiles []*sqlCommitFile
	err = s.db.Where("change_set_id = ?", id).Find(&commitFiles).Error
	if err != nil {
		return nil, err
	}

	var files []*sqlFile
	err = s.db.Where("change_set_id = ?", id).Find(&files).Error
	if err != nil {
		return nil, err
	}

	return toModelChangeSet(&scs, commits, commitFiles, files), nil
}

func toModelChangeSet(scs *sqlChangeSet, commits []*sqlCommit, commitFiles []*sqlCommitFile, files []*sqlFile) *model.ChangeSet {
	result := model.NewChangeSet()
	result.ID = scs.ID
	result.Root = scs.Root
	result.Location = model.Location{
		Type:              scs.LocationType,
		Name:              scs.LocationName,
		UseHeadIfNotFound: scs.UseHeadIfNotFound,
	}
	result.ParsedAt = scs.ParsedAt.UTC()
	result.BranchNames = set.From(scs.Branches)
	result.TagNames = set.From(scs.Tags)

	sort.Slice(commits, func(i, j int) bool {
		return commits[i].Position < commits[j].Position
	})

	byPosition := make(map[int]*model.Commit, len(commits))
	for _, sc := range commits {
		c := model.NewCommit(sc.Date.UTC(), sc.Author)
		c.Message = sc.Message
		c.CommitID = sc.CommitID

		result.Commits = append(result.Commits, c)
		byPosition[sc.Position] = c
	}

	sort.Slice(commitFiles, func(i, j int) bool {
		if commitFiles[i].CommitPosition != commitFiles[j].CommitPosition {
			return commitFiles[i].CommitPosition < commitFiles[j].CommitPosition
		}
		return commitFiles[i].FilePosition < commitFiles[j].FilePosition
	})

	for _, sf := range commitFiles {
		c, ok := byPosition[sf.CommitPosition]
		if !ok {
			continue
		}

		c.AddFiles(toModelFile(sf.Name, sf.FullName, sf.Revision, sf.PrevRevision, sf.Dead))
	}

	for _, sf := range files {
		result.AddFile(toModelFile(sf.Name, sf.FullName, sf.Revision, sf.PrevRevision, sf.Dead))
	}

	return result
}

func (s *gormStorage) WriteChangeSet(cs *model.ChangeSet) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if cs.ID == "" {
		cs.ID = model.NewUUID("c")
	}

	scs := newSqlChangeSet(cs)

	var sqlCommits []*sqlCommit
	var sqlCommitFiles []*sqlCommitFile
	for i, c := range cs.Commits {
		sqlCommits = append(sqlCommits, newSqlCommit(cs.ID, i, c))

		for j, f := range c.Files {
			sqlCommitFiles = append(sqlCommitFiles, newSqlCommitFile(cs.ID, i, j, f))
		}
	}

	sqlFiles := lo.Map(cs.ListFiles(), func(f *model.File, _ int) *sqlFile {
		return newSqlFile(cs.ID, f)
	})

	now := time.Now().Local()
	db := s.db.Session(&gorm.Session{
		NowFunc:         func() time.Time { return now },
		CreateBatchSize: 300,
	})

	err := db.Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(scs).Error
		if err != nil {
			return err
		}

		err = deleteRows(tx, cs.ID)
		if err != nil {
			return err
		}

		err = createRows(tx, sqlCommits)
		if err != nil {
			return err
		}

		err = createRows(tx, sqlCommitFiles)
		if err != nil {
			return err
		}

		return createRows(tx, sqlFiles)
	})
	if err != nil {
		return errors.Wrapf(err, "error writing change set %v", cs.ID)
	}

	if s.changeSets != nil {
		s.changeSets.Add(cs)
	}

	return nil
}

func (s *gormStorage) DeleteChangeSet(id model.UUID) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	var found bool

	err := s.db.Transaction(func(tx *gorm.DB) error {
		r := tx.Where("id = ?", id).Delete(&sqlChangeSet{})
		if r.Error != nil {
			return r.Error
		}

		found = r.RowsAffected > 0

		return deleteRows(tx, id)
	})
	if err != nil {
		return errors.Wrapf(err, "error deleting change set %v", id)
	}

	if !found {
		return errors.Wrapf(storages.ErrNotFound, "change set %v", id)
	}

	if s.changeSets != nil {
		s.changeSets.Remove(id)
	}

	return nil
}

func deleteRows(tx *gorm.DB, id model.UUID) error {
	for _, table := range []any{&sqlCommit{}, &sqlCommitFile{}, &sqlFile{}} {
		err := tx.Where("change_set_id = ?", id).Delete(table).Error
		if err != nil {
			return err
		}
	}

	return nil
}

func createRows[T any](tx *gorm.DB, rows []T) error {
	if len(rows) == 0 {
		return nil
	}

	return tx.Create(&rows).Error
}
