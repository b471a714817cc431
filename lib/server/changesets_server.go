package server

import (
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/pescuma/cvschanges/lib/filters"
	"github.com/pescuma/cvschanges/lib/model"
	"github.com/pescuma/cvschanges/lib/storages"
)

type ChangeSetParams struct {
	ID model.UUID `uri:"id"`
}

type ChangeSetListParams struct {
	GridParams
	Root string `form:"root"`
}

type CommitListParams struct {
	GridParams
	ID     model.UUID `uri:"id"`
	Filter string     `form:"filter"`
}

func (s *server) initChangeSets(r *gin.Engine) {
	r.GET("/api/changesets", getP[ChangeSetListParams](s.changeSetsList))
	r.GET("/api/changesets/:id", getP[ChangeSetParams](s.changeSetGet))
	r.GET("/api/changesets/:id/commits", getP[CommitListParams](s.commitsList))
}

func (s *server) changeSetsList(params *ChangeSetListParams) (any, error) {
	css := s.changeSets.List()

	if params.Root != "" {
		css = lo.Filter(css, func(cs *model.ChangeSet, _ int) bool {
			return cs.Root == params.Root
		})
	}

	err := s.sortChangeSets(css, params.Sort, params.Asc)
	if err != nil {
		return nil, err
	}

	total := len(css)

	css = paginate(css, params.Offset, params.Limit)

	return gin.H{
		"data":  lo.Map(css, func(cs *model.ChangeSet, _ int) gin.H { return s.toChangeSet(cs) }),
		"total": total,
	}, nil
}

func (s *server) sortChangeSets(col []*model.ChangeSet, field string, asc *bool) error {
	if field == "" {
		field = "parsedAt"
	}
	if asc == nil {
		asc = lo.ToPtr(field != "parsedAt")
	}

	switch field {
	case "parsedAt":
		sortBy(col, func(i *model.ChangeSet) int64 { return i.ParsedAt.UnixNano() }, *asc)
	case "id":
		sortBy(col, func(i *model.ChangeSet) model.UUID { return i.ID }, *asc)
	case "root":
		sortBy(col, func(i *model.ChangeSet) string { return i.Root }, *asc)
	case "location":
		sortBy(col, func(i *model.ChangeSet) string { return i.Location.String() }, *asc)
	case "commits":
		sortBy(col, func(i *model.ChangeSet) int { return len(i.Commits) }, *asc)
	case "files":
		sortBy(col, func(i *model.ChangeSet) int { return len(i.Files) }, *asc)
	default:
		return errors.Wrapf(errorBadRequest, "unknown sort field: %v", field)
	}

	return nil
}

func (s *server) changeSetGet(params *ChangeSetParams) (any, error) {
	cs, err := s.getChangeSet(params.ID)
	if err != nil {
		return nil, err
	}

	result := s.toChangeSet(cs)
	result["files"] = lo.Map(cs.ListFiles(), func(f *model.File, _ int) gin.H { return s.toFile(f) })
	return result, nil
}

func (s *server) commitsList(params *CommitListParams) (any, error) {
	cs, err := s.getChangeSet(params.ID)
	if err != nil {
		return nil, err
	}

	filter, err := filters.ParseCommitFilter(params.Filter)
	if err != nil {
		return nil, errors.Wrapf(errorBadRequest, "invalid filter: %v", err)
	}

	commits := lo.Filter(cs.Commits, func(c *model.Commit, _ int) bool {
		return filter(c)
	})

	err = s.sortCommits(commits, params.Sort, params.Asc)
	if err != nil {
		return nil, err
	}

	total := len(commits)

	commits = paginate(commits, params.Offset, params.Limit)

	return gin.H{
		"data":  lo.Map(commits, func(c *model.Commit, _ int) gin.H { return s.toCommit(c) }),
		"total": total,
	}, nil
}

func (s *server) sortCommits(col []*model.Commit, field string, asc *bool) error {
	if field == "" {
		// Report order
		return nil
	}
	if asc == nil {
		asc = lo.ToPtr(field != "date")
	}

	switch field {
	case "date":
		sortBy(col, func(i *model.Commit) int64 { return i.Date.UnixNano() }, *asc)
	case "author":
		sortBy(col, func(i *model.Commit) string { return i.Author }, *asc)
	case "files":
		sortBy(col, func(i *model.Commit) int { return len(i.Files) }, *asc)
	default:
		return errors.Wrapf(errorBadRequest, "unknown sort field: %v", field)
	}

	return nil
}

func (s *server) getChangeSet(id model.UUID) (*model.ChangeSet, error) {
	result := s.changeSets.Get(id)
	if result == nil {
		return nil, errors.Wrapf(storages.ErrNotFound, "change set %v", id)
	}
	return result, nil
}

func (s *server) toChangeSet(cs *model.ChangeSet) gin.H {
	first, last := cs.Period()

	return gin.H{
		"id":                cs.ID,
		"root":              cs.Root,
		"location":          cs.Location.String(),
		"useHeadIfNotFound": cs.Location.UseHeadIfNotFound,
		"parsedAt":          encodeDate(cs.ParsedAt),
		"firstCommit":       encodeDate(first),
		"lastCommit":        encodeDate(last),
		"commits":           len(cs.Commits),
		"files":             len(cs.Files),
		"branches":          cs.ListBranchNames(),
		"tags":              cs.ListTagNames(),
	}
}

func (s *server) toCommit(c *model.Commit) gin.H {
	return gin.H{
		"date":     c.Date,
		"author":   c.Author,
		"message":  c.Message,
		"commitID": c.CommitID,
		"files":    lo.Map(c.Files, func(f *model.File, _ int) gin.H { return s.toFile(f) }),
	}
}

func (s *server) toFile(f *model.File) gin.H {
	result := gin.H{
		"name":     f.Name,
		"fullName": f.FullName,
		"revision": f.Revision,
		"dead":     f.Dead,
	}
	if f.HasPrevRevision() {
		result["prevRevision"] = f.PrevRevision
	}
	return result
}
