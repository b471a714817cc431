package rlog

import (
	"github.com/pkg/errors"

	"github.com/pescuma/cvschanges/lib/model"
)

// locationFilter decides which commits belong to the requested location.
type locationFilter struct {
	location model.Location
	resolver *resolver
}

func newLocationFilter(location model.Location, resolver *resolver) *locationFilter {
	return &locationFilter{
		location: location,
		resolver: resolver,
	}
}

// accepts must be called while the file of the revision is being scanned.
func (f *locationFilter) accepts(revision string) bool {
	branch, onBranch := f.resolver.branchOf(revision)

	if f.useMainline() {
		return !onBranch
	}

	return onBranch && branch == f.location.Name
}

func (f *locationFilter) useMainline() bool {
	if f.location.IsMainline() {
		return true
	}

	return f.location.UseHeadIfNotFound && !f.resolver.registeredInFile(f.location.Name)
}

// check returns ErrLocationNotFound if the requested name was never seen in the report.
func (f *locationFilter) check() error {
	if f.location.IsMainline() || f.location.UseHeadIfNotFound {
		return nil
	}

	if f.resolver.registered(f.location.Name) {
		return nil
	}

	return errors.Wrapf(ErrLocationNotFound, "%v", f.location)
}
