package workspace

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/hashicorp/go-set/v2"
	"github.com/pkg/errors"

	"github.com/pescuma/cvschanges/lib/changelog"
	"github.com/pescuma/cvschanges/lib/consoles"
	"github.com/pescuma/cvschanges/lib/filters"
	"github.com/pescuma/cvschanges/lib/linesource"
	"github.com/pescuma/cvschanges/lib/metrics"
	"github.com/pescuma/cvschanges/lib/model"
	"github.com/pescuma/cvschanges/lib/rlog"
	"github.com/pescuma/cvschanges/lib/server"
	"github.com/pescuma/cvschanges/lib/storages"
	"github.com/pescuma/cvschanges/lib/storages/orm"
	"github.com/pescuma/cvschanges/lib/utils"
)

type Workspace struct {
	console consoles.Console
	storage storages.Storage
	metrics *metrics.Metrics
	now     func() time.Time
}

func NewWorkspace(file string) (*Workspace, error) {
	if file == "" {
		if _, err := os.Stat("./.cvschanges"); err == nil {
			file = "./.cvschanges/cvschanges.sqlite"
		} else {
			file = "~/.cvschanges/cvschanges.sqlite"
		}
	}

	console := consoles.NewStdOutConsole()

	var storage storages.Storage
	var err error
	switch {
	case file == ":memory:":
		storage, err = orm.NewGormStorage(orm.WithSqliteInMemory(), console)

	case strings.HasSuffix(file, ".sqlite"):
		file, err = utils.PathAbs(file)
		if err != nil {
			return nil, err
		}

		err = createWorkspaceDir(file)
		if err != nil {
			return nil, err
		}

		storage, err = orm.NewGormStorage(orm.WithSqlite(file), console)

	default:
		return nil, fmt.Errorf("unknown storage type for file %v", file)
	}
	if err != nil {
		return nil, err
	}

	return New(console, storage), nil
}

// New creates a workspace over an already open storage.
func New(console consoles.Console, storage storages.Storage) *Workspace {
	return &Workspace{
		console: console,
		storage: storage,
		metrics: metrics.New(),
		now:     time.Now,
	}
}

func createWorkspaceDir(file string) error {
	path := filepath.Dir(file)

	if _, err := os.Stat(path); err != nil {
		fmt.Printf("Creating workspace at %v\n", path)
		err = os.MkdirAll(path, 0o700)
		if err != nil {
			return err
		}
	}

	return nil
}

func (w *Workspace) Close() error {
	return w.storage.Close()
}

func (w *Workspace) Console() consoles.Console {
	return w.console
}

func (w *Workspace) Metrics() *metrics.Metrics {
	return w.metrics
}

type ParseOptions struct {
	Root     string
	Location model.Location
	// Exclude has the excluded regions rules
	Exclude []string
}

// Parse reads one report and returns its change set, without storing it.
func (w *Workspace) Parse(ctx context.Context, source linesource.Source, opts *ParseOptions) (*model.ChangeSet, error) {
	if opts == nil {
		opts = &ParseOptions{}
	}

	exclude, err := filters.ParseExcludedRegions(opts.Exclude)
	if err != nil {
		return nil, err
	}

	w.console.Printf("Parsing %v for %v...\n", source.Name(), opts.Location)

	r, err := source.Open(ctx)
	if err != nil {
		return nil, err
	}

	cs, err := rlog.ParseReader(r, &rlog.Options{
		Root:     opts.Root,
		Location: opts.Location,
		Exclude:  exclude,
		Console:  w.console,
		Metrics:  w.metrics,
	})

	closeErr := r.Close()

	if err != nil {
		return nil, errors.Wrapf(err, "error parsing %v", source.Name())
	}
	if closeErr != nil {
		return nil, closeErr
	}

	cs.ParsedAt = w.now()

	return cs, nil
}

// Import parses the reports, in parallel, and stores their change sets.
func (w *Workspace) Import(ctx context.Context, sources []linesource.Source, opts *ParseOptions) ([]*model.ChangeSet, error) {
	css, err := utils.ParallelMap(sources, func(source linesource.Source) (*model.ChangeSet, error) {
		return w.Parse(ctx, source, opts)
	})
	if err != nil {
		return nil, err
	}

	for _, cs := range css {
		err = w.storage.WriteChangeSet(cs)
		if err != nil {
			return nil, err
		}

		w.console.Printf("Stored change set %v with %v commits\n", cs.ID, len(cs.Commits))
	}

	return css, nil
}

func (w *Workspace) List() ([]*model.ChangeSet, error) {
	css, err := w.storage.LoadChangeSets()
	if err != nil {
		return nil, err
	}

	return css.List(), nil
}

func (w *Workspace) Get(id model.UUID) (*model.ChangeSet, error) {
	return w.storage.LoadChangeSet(id)
}

func (w *Workspace) Delete(id model.UUID) error {
	return w.storage.DeleteChangeSet(id)
}

func (w *Workspace) Export(id model.UUID, out io.Writer, format changelog.Format) error {
	cs, err := w.storage.LoadChangeSet(id)
	if err != nil {
		return err
	}

	return changelog.Write(out, cs, format)
}

// Names returns all branch and tag names seen in stored reports.
func (w *Workspace) Names() ([]string, []string, error) {
	css, err := w.storage.LoadChangeSets()
	if err != nil {
		return nil, nil, err
	}

	branches := set.New[string](10)
	tags := set.New[string](10)
	for _, cs := range css.List() {
		branches.InsertSet(cs.BranchNames)
		tags.InsertSet(cs.TagNames)
	}

	return sortedSlice(branches), sortedSlice(tags), nil
}

func sortedSlice(s *set.Set[string]) []string {
	result := s.Slice()
	sort.Strings(result)
	return result
}

func (w *Workspace) Serve(opts *server.Options) error {
	return server.Run(w.console, w.storage, w.metrics, opts)
}
