package storages

import (
	"github.com/pkg/errors"

	"github.com/pescuma/cvschanges/lib/model"
)

var ErrNotFound = errors.New("not found")

type Storage interface {
	LoadChangeSets() (*model.ChangeSets, error)
	// LoadChangeSet returns ErrNotFound if there is no change set with the id
	LoadChangeSet(id model.UUID) (*model.ChangeSet, error)
	WriteChangeSet(cs *model.ChangeSet) error
	// DeleteChangeSet returns ErrNotFound if there is no change set with the id
	DeleteChangeSet(id model.UUID) error

	Close() error
}

type Factory = func(path string) (Storage, error)
