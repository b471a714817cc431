package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bloomberg/go-testgroup"
	"github.com/hashicorp/go-set/v2"

	"github.com/pescuma/cvschanges/lib/metrics"
	"github.com/pescuma/cvschanges/lib/model"
	"github.com/pescuma/cvschanges/lib/storages"
)

type memStorage struct {
	css *model.ChangeSets
}

func (m *memStorage) LoadChangeSets() (*model.ChangeSets, error) {
	return m.css, nil
}

func (m *memStorage) LoadChangeSet(id model.UUID) (*model.ChangeSet, error) {
	cs := m.css.Get(id)
	if cs == nil {
		return nil, storages.ErrNotFound
	}
	return cs, nil
}

func (m *memStorage) WriteChangeSet(cs *model.ChangeSet) error {
	m.css.Add(cs)
	return nil
}

func (m *memStorage) DeleteChangeSet(id model.UUID) error {
	if !m.css.Remove(id) {
		return storages.ErrNotFound
	}
	return nil
}

func (m *memStorage) Close() error {
	return nil
}

func newTestChangeSet(id model.UUID, parsedAt time.Time, branches ...string) *model.ChangeSet {
	cs := model.NewChangeSet()
	cs.ID = id
	cs.Root = "/cvsroot"
	cs.ParsedAt = parsedAt
	cs.BranchNames = set.From(branches)
	cs.TagNames = set.From([]string{"REL_" + string(id)})

	main := model.NewFile("proj/main.c", "/cvsroot/proj/main.c", "1.2")
	main.PrevRevision = "1.1"
	old := model.NewFile("proj/old.c", "/cvsroot/proj/Attic/old.c", "1.2")
	old.Dead = true

	c1 := model.NewCommit(time.Date(2011, 3, 1, 10, 0, 0, 0, time.UTC), "bob")
	c1.Message = "remove old"
	c1.AddFiles(main.Clone(), old.Clone())

	c2 := model.NewCommit(time.Date(2011, 1, 2, 10, 0, 0, 0, time.UTC), "alice")
	c2.Message = "initial add"
	c2.AddFiles(model.NewFile("proj/main.c", "/cvsroot/proj/main.c", "1.1"))

	cs.Commits = []*model.Commit{c1, c2}
	cs.AddFile(main)
	cs.AddFile(old)

	return cs
}

func TestServer(t *testing.T) {
	testgroup.RunInParallel(t, &ServerTests{})
}

type ServerTests struct {
}

func newTestServer(t *testgroup.T) http.Handler {
	css := model.NewChangeSets()
	css.Add(newTestChangeSet("a", time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), "dev"))
	css.Add(newTestChangeSet("b", time.Date(2023, 2, 1, 0, 0, 0, 0, time.UTC), "dev", "feature"))

	m := metrics.New()
	m.ParseFinished(metrics.ResultOK, 10, 2, 2)

	s := newServer(m, nil)
	t.NoError(s.load(&memStorage{css: css}))

	return s.router()
}

func request(t *testgroup.T, h http.Handler, url string) (int, map[string]any) {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, url, nil))

	var body map[string]any
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		t.NoError(json.Unmarshal(w.Body.Bytes(), &body))
	}

	return w.Code, body
}

func ids(body map[string]any) []string {
	var result []string
	for _, e := range body["data"].([]any) {
		result = append(result, e.(map[string]any)["id"].(string))
	}
	return result
}

func (g *ServerTests) DefaultPort(t *testgroup.T) {
	s := newServer(nil, nil)

	t.Equal(uint(2427), s.opts.Port)
}

func (g *ServerTests) ListChangeSets(t *testgroup.T) {
	code, body := request(t, newTestServer(t), "/api/changesets")

	t.Equal(http.StatusOK, code)
	t.Equal(float64(2), body["total"])
	t.Equal([]string{"b", "a"}, ids(body))

	first := body["data"].([]any)[0].(map[string]any)
	t.Equal("HEAD", first["location"])
	t.Equal(float64(2), first["commits"])
	t.Equal(float64(2), first["files"])
	t.Equal("2011-01-02T10:00:00Z", first["firstCommit"])
}

func (g *ServerTests) ListChangeSetsSortedAndPaginated(t *testgroup.T) {
	h := newTestServer(t)

	_, body := request(t, h, "/api/changesets?sort=id")
	t.Equal([]string{"a", "b"}, ids(body))

	_, body = request(t, h, "/api/changesets?sort=id&asc=false&offset=1&limit=5")
	t.Equal(float64(2), body["total"])
	t.Equal([]string{"a"}, ids(body))

	code, _ := request(t, h, "/api/changesets?sort=nope")
	t.Equal(http.StatusBadRequest, code)
}

func (g *ServerTests) GetChangeSet(t *testgroup.T) {
	code, body := request(t, newTestServer(t), "/api/changesets/a")

	t.Equal(http.StatusOK, code)
	t.Equal("a", body["id"])
	t.Equal([]any{"dev"}, body["branches"])

	files := body["files"].([]any)
	t.Len(files, 2)
	t.Equal("proj/old.c", files[0].(map[string]any)["name"])
	t.Equal(true, files[0].(map[string]any)["dead"])
	t.NotContains(files[0].(map[string]any), "prevRevision")
	t.Equal("proj/main.c", files[1].(map[string]any)["name"])
	t.Equal("1.1", files[1].(map[string]any)["prevRevision"])
}

func (g *ServerTests) GetMissingChangeSet(t *testgroup.T) {
	code, _ := request(t, newTestServer(t), "/api/changesets/nope")

	t.Equal(http.StatusNotFound, code)
}

func (g *ServerTests) ListCommits(t *testgroup.T) {
	h := newTestServer(t)

	code, body := request(t, h, "/api/changesets/a/commits")
	t.Equal(http.StatusOK, code)
	t.Equal(float64(2), body["total"])

	data := body["data"].([]any)
	t.Equal("bob", data[0].(map[string]any)["author"])
	t.Len(data[0].(map[string]any)["files"], 2)

	_, body = request(t, h, "/api/changesets/a/commits?sort=date")
	t.Equal("bob", body["data"].([]any)[0].(map[string]any)["author"])

	_, body = request(t, h, "/api/changesets/a/commits?sort=date&asc=true")
	t.Equal("alice", body["data"].([]any)[0].(map[string]any)["author"])
}

func (g *ServerTests) ListCommitsFiltered(t *testgroup.T) {
	h := newTestServer(t)

	_, body := request(t, h, "/api/changesets/a/commits?filter=deleted")
	t.Equal(float64(1), body["total"])

	code, _ := request(t, h, "/api/changesets/a/commits?filter=msg:(")
	t.Equal(http.StatusBadRequest, code)

	code, _ = request(t, h, "/api/changesets/nope/commits")
	t.Equal(http.StatusNotFound, code)
}

func (g *ServerTests) Names(t *testgroup.T) {
	code, body := request(t, newTestServer(t), "/api/names")

	t.Equal(http.StatusOK, code)
	t.Equal([]any{"dev", "feature"}, body["branches"])
	t.Equal([]any{"REL_a", "REL_b"}, body["tags"])
}

func (g *ServerTests) Metrics(t *testgroup.T) {
	w := httptest.NewRecorder()
	newTestServer(t).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	t.Equal(http.StatusOK, w.Code)
	t.Contains(w.Body.String(), `cvschanges_parses_total{result="ok"} 1`)
	t.Contains(w.Body.String(), "cvschanges_lines_total 10")
}
