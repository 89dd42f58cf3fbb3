package main

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"

	"github.com/fjvi/bm/internal/engine"
	"github.com/fjvi/bm/internal/model"
)

const sampleHTML = `<!DOCTYPE NETSCAPE-Bookmark-file-1>
<DL><p>
<DT><H3>Dev</H3>
<DL><p>
<DT><A HREF="https://go.dev">Go</A>
<DT><A HREF="https://github.com">GitHub</A>
</DL><p>
<DT><A HREF="https://news.ycombinator.com">News</A>
</DL><p>
`

// env is an isolated data directory with a config file pointing at it.
type env struct {
	t       *testing.T
	dir     string
	config  string
	opened  []string
	openErr error
}

func newEnv(t *testing.T, extra string) *env {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Chdir(home)

	dir := filepath.Join(home, "data")
	config := filepath.Join(home, "config.yaml")
	content := fmt.Sprintf("data_dir: %q\n%s", dir, extra)
	assert.NilError(t, os.WriteFile(config, []byte(content), 0o644))
	return &env{t: t, dir: dir, config: config}
}

// run executes one bm invocation and returns its stdout.
func (e *env) run(args ...string) (string, error) {
	e.t.Helper()
	c := &cli{openURL: func(url string) error {
		e.opened = append(e.opened, url)
		return e.openErr
	}}
	defer c.close()
	root := newRootCmd(c)

	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append([]string{"--config", e.config}, args...))
	err := root.Execute()
	return out.String(), err
}

func (e *env) mustRun(args ...string) string {
	e.t.Helper()
	out, err := e.run(args...)
	assert.NilError(e.t, err, "bm %s", strings.Join(args, " "))
	return out
}

func (e *env) writeFile(name, content string) string {
	e.t.Helper()
	path := filepath.Join(filepath.Dir(e.config), name)
	assert.NilError(e.t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func (e *env) importSample() {
	e.t.Helper()
	e.mustRun("import", e.writeFile("bookmarks.html", sampleHTML))
}

func TestImport(t *testing.T) {
	e := newEnv(t, "")
	path := e.writeFile("bookmarks.html", sampleHTML)

	out := e.mustRun("import", path)
	assert.Equal(t, out, fmt.Sprintf("Imported 3 bookmarks from %s\n", path))

	out = e.mustRun("tree")
	assert.Equal(t, out, "Dev/\n  Go  https://go.dev\n  GitHub  https://github.com\nNews  https://news.ycombinator.com\n")
}

func TestImport_Merge(t *testing.T) {
	e := newEnv(t, "")
	e.importSample()
	path := e.writeFile("extra.json", `[{"title": "Lobsters", "url": "https://lobste.rs"}]`)

	out := e.mustRun("import", "--merge", path)
	assert.Equal(t, out, fmt.Sprintf("Merged 1 bookmarks from %s (4 total)\n", path))

	out = e.mustRun("tree")
	assert.Check(t, is.Contains(out, "Dev/\n"))
	assert.Check(t, strings.HasSuffix(out, "Lobsters  https://lobste.rs\n"))
}

func TestImport_ExplicitFormat(t *testing.T) {
	e := newEnv(t, "")
	path := e.writeFile("export.txt", `<DL><DT><A HREF="https://go.dev">Go</A></DL>`)

	_, err := e.run("import", "--format", "xml", path)
	assert.ErrorContains(t, err, `unknown format "xml"`)

	e.mustRun("import", "--format", "html", path)
	assert.Equal(t, e.mustRun("tree"), "Go  https://go.dev\n")
}

func TestImport_InvalidKeepsBookmarks(t *testing.T) {
	e := newEnv(t, "")
	e.importSample()
	path := e.writeFile("broken.json", `[{"title": `)

	_, err := e.run("import", path)
	assert.Check(t, errors.Is(err, model.ErrInvalidFormat))
	assert.Check(t, is.Contains(e.mustRun("tree"), "GitHub"))
}

func TestImport_MissingFile(t *testing.T) {
	e := newEnv(t, "")
	_, err := e.run("import", filepath.Join(e.dir, "nope.html"))
	assert.Check(t, errors.Is(err, model.ErrEmptyOrMissingFile))
}

func TestExport_JSON(t *testing.T) {
	e := newEnv(t, "")
	e.importSample()
	path := filepath.Join(e.dir, "out.json")

	out := e.mustRun("export", "--format", "json", path)
	assert.Equal(t, out, fmt.Sprintf("Exported 3 bookmarks to %s\n", path))

	data, err := os.ReadFile(path)
	assert.NilError(t, err)
	var wire []map[string]any
	assert.NilError(t, json.Unmarshal(data, &wire))
	assert.Check(t, is.Len(wire, 2))
	assert.Check(t, is.Equal(wire[0]["title"], "Dev"))
}

func TestExport_HTMLWithIcons(t *testing.T) {
	e := newEnv(t, "favicon:\n  primary: \"https://icons.test/%s\"\n")
	e.importSample()
	path := filepath.Join(e.dir, "out.html")

	e.mustRun("export", "--icons", path)
	data, err := os.ReadFile(path)
	assert.NilError(t, err)
	assert.Check(t, is.Contains(string(data), `HREF="https://go.dev"`))
	assert.Check(t, is.Contains(string(data), `ICON_URI="https://icons.test/`))
}

func TestExport_NothingLoaded(t *testing.T) {
	e := newEnv(t, "")
	_, err := e.run("export", filepath.Join(e.dir, "out.html"))
	assert.Check(t, errors.Is(err, model.ErrNoDataToExport))
}

func TestSearch(t *testing.T) {
	e := newEnv(t, "")
	e.importSample()

	out := e.mustRun("search", "GIT")
	assert.Equal(t, out, "Found 1 results:\n1. GitHub\n   https://github.com\n   in Dev\n")

	out = e.mustRun("search", "nothing", "here")
	assert.Equal(t, out, "No bookmarks found for 'nothing here'\n")
}

func TestSearch_BlankKeywordPrintsTree(t *testing.T) {
	e := newEnv(t, "")
	e.importSample()

	out := e.mustRun("search", "   ")
	assert.Equal(t, out, "Dev/\n  Go  https://go.dev\n  GitHub  https://github.com\nNews  https://news.ycombinator.com\n")
}

func TestFind_SingleMatchOpens(t *testing.T) {
	e := newEnv(t, "")
	e.importSample()

	out := e.mustRun("find", "hub")
	assert.Equal(t, out, "Opening: GitHub\n")
	assert.DeepEqual(t, e.opened, []string{"https://github.com"})
}

func TestFind_NoMatch(t *testing.T) {
	e := newEnv(t, "")
	e.importSample()

	out := e.mustRun("find", "zzz")
	assert.Equal(t, out, "No bookmarks found for 'zzz'\n")
	assert.Check(t, is.Len(e.opened, 0))
}

func TestFind_OpenError(t *testing.T) {
	e := newEnv(t, "")
	e.importSample()
	e.openErr = errors.New("no browser")

	_, err := e.run("find", "hub")
	assert.Error(t, err, "no browser")
}

func TestEdits(t *testing.T) {
	e := newEnv(t, "")
	e.importSample()

	assert.Equal(t, e.mustRun("mkdir", "Dev/Lang/Tools"), "Created Dev/Lang/Tools/\n")
	assert.Equal(t, e.mustRun("add", "https://pkg.go.dev", "Packages", "--folder", "Dev/Lang"), "Added Dev/Lang/Packages\n")
	assert.Equal(t, e.mustRun("add", "https://lobste.rs", "Lobsters", "-F", "Reading/Daily"), "Added Reading/Daily/Lobsters\n")

	assert.Equal(t, e.mustRun("tree"), `Dev/
  Go  https://go.dev
  GitHub  https://github.com
  Lang/
    Tools/
    Packages  https://pkg.go.dev
News  https://news.ycombinator.com
Reading/
  Daily/
    Lobsters  https://lobste.rs
`)
}

func TestAdd_DefaultsAndTopLevel(t *testing.T) {
	e := newEnv(t, "")

	assert.Equal(t, e.mustRun("add", "https://go.dev"), "Added https://go.dev\n")
	assert.Equal(t, e.mustRun("tree"), "https://go.dev  https://go.dev\n")
}

func TestAdd_FolderIsLink(t *testing.T) {
	e := newEnv(t, "")
	e.importSample()

	_, err := e.run("add", "https://x.test", "--folder", "News/Sub")
	assert.Check(t, errors.Is(err, model.ErrNotAFolder))
}

func TestMkdir_Empty(t *testing.T) {
	e := newEnv(t, "")
	_, err := e.run("mkdir", "/")
	assert.Error(t, err, "folder path is empty")
}

func TestRename(t *testing.T) {
	e := newEnv(t, "")
	e.importSample()

	assert.Equal(t, e.mustRun("rename", "Dev/Go", "Golang"), "Renamed to Dev/Golang\n")
	assert.Check(t, is.Contains(e.mustRun("tree"), "  Golang  https://go.dev\n"))

	_, err := e.run("rename", "Dev/Nope", "x")
	assert.Check(t, errors.Is(err, model.ErrNotFound))
}

func TestMove(t *testing.T) {
	e := newEnv(t, "")
	e.importSample()

	assert.Equal(t, e.mustRun("mv", "News", "Dev"), "Moved to Dev/News\n")
	assert.Equal(t, e.mustRun("mv", "Dev/Go", "/"), "Moved to Go\n")
	assert.Equal(t, e.mustRun("tree"), "Dev/\n  GitHub  https://github.com\n  News  https://news.ycombinator.com\nGo  https://go.dev\n")

	_, err := e.run("mv", "Dev", "Go")
	assert.Check(t, errors.Is(err, model.ErrNotAFolder))
}

func TestMove_IntoItself(t *testing.T) {
	e := newEnv(t, "")
	e.importSample()
	e.mustRun("mkdir", "Dev/Inner")

	_, err := e.run("mv", "Dev", "Dev/Inner")
	assert.Check(t, errors.Is(err, model.ErrCycle))
}

func TestRm(t *testing.T) {
	e := newEnv(t, "")
	e.importSample()

	assert.Equal(t, e.mustRun("rm", "Dev"), "Deleted Dev\n")
	assert.Equal(t, e.mustRun("tree"), "News  https://news.ycombinator.com\n")

	_, err := e.run("rm", "/")
	assert.Check(t, errors.Is(err, model.ErrNotFound))
}

func TestSQLiteBackend(t *testing.T) {
	e := newEnv(t, "storage:\n  backend: sqlite\n")
	e.importSample()
	e.mustRun("add", "https://pkg.go.dev", "Packages", "--folder", "Dev")

	out := e.mustRun("tree")
	assert.Check(t, is.Contains(out, "  Packages  https://pkg.go.dev\n"))
	_, err := os.Stat(filepath.Join(e.dir, "bookmarks.db"))
	assert.NilError(t, err)
}

func TestCheck(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/ok", func(w http.ResponseWriter, r *http.Request) {})
	mux.HandleFunc("/gone", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	e := newEnv(t, "cull:\n  exclude_domains: []\n")
	path := e.writeFile("links.json", fmt.Sprintf(`[
  {"title": "Alive", "url": "%[1]s/ok"},
  {"title": "Folder", "children": [{"title": "Dead", "url": "%[1]s/gone"}]}
]`, srv.URL))
	e.mustRun("import", path)

	out := e.mustRun("check")
	assert.Check(t, is.Contains(out, "dead         Dead  "+srv.URL+"/gone (404)\n"))
	assert.Check(t, is.Contains(out, "1 healthy, 1 dead, 0 unreachable\n"))
	assert.Check(t, is.Contains(e.mustRun("tree"), "Dead"))

	out = e.mustRun("check", "--prune")
	assert.Check(t, is.Contains(out, "Pruned 1 dead links\n"))
	assert.Equal(t, e.mustRun("tree"), fmt.Sprintf("Alive  %s/ok\nFolder/\n", srv.URL))
}

func TestCheck_Empty(t *testing.T) {
	e := newEnv(t, "")
	assert.Equal(t, e.mustRun("check"), "No bookmarks to check\n")
}

func TestFavicon(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/primary") {
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	e := newEnv(t, fmt.Sprintf("favicon:\n  primary: %q\n  fallback: %q\n", srv.URL+"/primary?u=%s", srv.URL+"/fallback/%s"))

	out := e.mustRun("favicon", "https://go.dev/doc")
	assert.Equal(t, out, srv.URL+"/fallback/go.dev\n")

	data, err := os.ReadFile(filepath.Join(e.dir, "favicons.json"))
	assert.NilError(t, err)
	assert.Check(t, is.Contains(string(data), `"go.dev"`))

	_, err = e.run("favicon", "not a url")
	assert.ErrorContains(t, err, "has no host")
}

func TestPush_NoCredential(t *testing.T) {
	e := newEnv(t, "remote:\n  repo: me/bookmarks\n  token_env: BM_TEST_TOKEN\n")
	t.Setenv("BM_TEST_TOKEN", "")
	e.importSample()

	_, err := e.run("push")
	assert.Check(t, errors.Is(err, engine.ErrNoCredential))
}

func TestPull(t *testing.T) {
	content := base64.StdEncoding.EncodeToString([]byte(`[{"title": "Remote", "url": "https://remote.test"}]`))
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		assert.Check(t, is.Equal(r.URL.Path, "/repos/me/bookmarks/contents/data/bookmarks.json"))
		fmt.Fprintf(w, `{"sha": "abc", "content": %q, "encoding": "base64"}`, content)
	}))
	defer srv.Close()

	e := newEnv(t, fmt.Sprintf("remote:\n  api_url: %q\n  repo: me/bookmarks\n  token_env: BM_TEST_TOKEN\n", srv.URL))
	t.Setenv("BM_TEST_TOKEN", "secret")
	e.importSample()

	out := e.mustRun("pull")
	assert.Equal(t, out, "Pulled 1 entries from me/bookmarks:data/bookmarks.json\n")
	assert.Check(t, is.Contains(gotAuth, "secret"))
	assert.Equal(t, e.mustRun("tree"), "Remote  https://remote.test\n")
}

func TestConfig(t *testing.T) {
	e := newEnv(t, "storage:\n  backend: sqlite\n")

	out := e.mustRun("config")
	assert.Check(t, strings.HasPrefix(out, "# "+e.config+"\n"))
	assert.Check(t, is.Contains(out, "backend: sqlite"))
	assert.Check(t, is.Contains(out, "data_dir: "+e.dir))
}

func TestConfig_Invalid(t *testing.T) {
	e := newEnv(t, "storage:\n  backend: csv\n")
	_, err := e.run("tree")
	assert.ErrorContains(t, err, "storage.backend")
}
