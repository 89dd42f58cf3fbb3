package tui

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	logtest "github.com/sirupsen/logrus/hooks/test"
	"gotest.tools/v3/assert"

	"github.com/fjvi/bm/internal/engine"
	"github.com/fjvi/bm/internal/favicon"
	"github.com/fjvi/bm/internal/model"
)

// iconApp selects a single link whose primary icon service fails, so the
// fallback is the only refinement that can answer.
func iconApp(t *testing.T) (App, string) {
	t.Helper()
	logger, _ := logtest.NewNullLogger()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/primary") {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte("ico"))
	}))
	t.Cleanup(srv.Close)

	e := engine.New(logger)
	assert.NilError(t, e.Load([]*model.Node{model.NewLink("Go", "https://go.dev")}))

	resolver := favicon.New(favicon.Options{
		Primary:  srv.URL + "/primary?u=%s",
		Fallback: srv.URL + "/fallback/%s",
		Client:   srv.Client(),
		Log:      logger,
	})
	app := NewApp(AppParams{Engine: e, Favicons: resolver, Log: logger})
	return app, srv.URL
}

func TestFavicon_RefinedIconReplacesGuess(t *testing.T) {
	app, base := iconApp(t)
	id := app.items[0].NodeID

	cmd := app.Init()
	assert.Assert(t, cmd != nil)
	assert.Assert(t, strings.HasPrefix(app.Icon(id), base+"/primary"))

	// asked once per node
	assert.Assert(t, app.requestIcon() == nil)

	updated, _ := app.Update(cmd())
	app = updated.(App)
	assert.Equal(t, app.Icon(id), base+"/fallback/go.dev")
}

func TestFavicon_StaleAnswerIsDropped(t *testing.T) {
	app, base := iconApp(t)
	id := app.items[0].NodeID
	_ = app.Init()
	before := app.Icon(id)
	assert.Assert(t, strings.HasPrefix(before, base+"/primary"))

	updated, _ := app.Update(faviconMsg{NodeID: id, Icon: "https://late.example/icon", OK: false})
	app = updated.(App)

	assert.Equal(t, app.Icon(id), before)
}

func TestFavicon_NoResolver(t *testing.T) {
	logger, _ := logtest.NewNullLogger()
	e := engine.New(logger)
	assert.NilError(t, e.Load([]*model.Node{model.NewLink("Go", "https://go.dev")}))

	app := NewApp(AppParams{Engine: e, Log: logger})

	assert.Assert(t, app.Init() == nil)
	assert.Equal(t, app.Icon(app.items[0].NodeID), "")
}
