package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"twitchoverlay/internal/app/adapters/platform/twitch/irc"
	"twitchoverlay/internal/app/infrastructure/config"
	"twitchoverlay/internal/app/ports"
	"twitchoverlay/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubOverlays struct {
	mu        sync.Mutex
	overlays  map[string]ports.OverlaySnapshot
	applied   []config.Overlay
	channels  []string
	applyErr  error
	toggled   int
	shutdowns int
}

func newStubOverlays() *stubOverlays {
	return &stubOverlays{overlays: make(map[string]ports.OverlaySnapshot)}
}

func (s *stubOverlays) WindowCreated(windowID, title string) (ports.OverlaySnapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if title != "Game" {
		return ports.OverlaySnapshot{}, false
	}
	if windowID == "" {
		windowID = "generated"
	}
	snap := ports.OverlaySnapshot{ID: "ov-" + windowID, WindowID: windowID, Title: title}
	s.overlays[windowID] = snap
	return snap, true
}

func (s *stubOverlays) WindowClosed(windowID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.overlays[windowID]
	delete(s.overlays, windowID)
	return ok
}

func (s *stubOverlays) Overlays() []ports.OverlaySnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ports.OverlaySnapshot, 0, len(s.overlays))
	for _, o := range s.overlays {
		out = append(out, o)
	}
	return out
}

func (s *stubOverlays) Overlay(id string) (ports.OverlaySnapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.overlays {
		if o.ID == id {
			o.Entries = []ports.ChatEntry{{Kind: ports.EntryInfo, Text: "Twitch Overlay enabled"}}
			return o, true
		}
	}
	return ports.OverlaySnapshot{}, false
}

func (s *stubOverlays) ApplySettings(settings config.Overlay, channel string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.applied = append(s.applied, settings)
	s.channels = append(s.channels, channel)
	return s.applyErr
}

func (s *stubOverlays) Indicator() ports.IndicatorState { return ports.IndicatorActive }

func (s *stubOverlays) Toggle() ports.IndicatorState {
	s.toggled++
	return ports.IndicatorInactive
}

func (s *stubOverlays) UnredirectDisabled() bool { return false }
func (s *stubOverlays) Shutdown()                { s.shutdowns++ }

type stubSession struct{}

func (stubSession) OnConnected(func()) func()           { return func() {} }
func (stubSession) OnMessage(func(*irc.Message)) func() { return func() {} }
func (stubSession) OnError(func(error)) func()          { return func() {} }
func (stubSession) OnClose(func()) func()               { return func() {} }
func (stubSession) OnJoin(func(string)) func()          { return func() {} }
func (stubSession) OnPart(func(string)) func()          { return func() {} }
func (stubSession) State() irc.State                    { return irc.StateConnected }
func (stubSession) Channel() string                     { return "somechannel" }
func (stubSession) Authenticated() bool                 { return true }

// syncDebouncer runs tasks on Flush only.
type syncDebouncer struct {
	pending func()
	calls   int
}

func (d *syncDebouncer) Trigger(task func()) {
	d.calls++
	d.pending = task
}

func (d *syncDebouncer) Flush() {
	if d.pending != nil {
		d.pending()
		d.pending = nil
	}
}

func (d *syncDebouncer) Stop() { d.pending = nil }

type testEnv struct {
	router    *Router
	overlays  *stubOverlays
	debouncer *syncDebouncer
	manager   *config.Manager
}

func newTestEnv(t *testing.T, token string) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	manager, err := config.New(filepath.Join(t.TempDir(), "config.json"))
	require.NoError(t, err)
	if token != "" {
		require.NoError(t, manager.Update(func(cfg *config.Config) { cfg.App.AuthToken = token }))
	}

	env := &testEnv{
		overlays:  newStubOverlays(),
		debouncer: &syncDebouncer{},
		manager:   manager,
	}
	env.router = NewRouter(logger.NewDiscard(), manager, env.overlays, stubSession{}, env.debouncer)
	return env
}

func (e *testEnv) do(t *testing.T, method, path string, body any, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	e.router.Handler().ServeHTTP(w, req)
	return w
}

func TestRouter_Status(t *testing.T) {
	env := newTestEnv(t, "")

	w := env.do(t, http.MethodGet, "/status", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "active", body["state"])
	assert.Equal(t, "connected", body["connection"])
	assert.Equal(t, true, body["connected"])
	assert.Equal(t, "somechannel", body["channel"])
}

func TestRouter_Windows(t *testing.T) {
	env := newTestEnv(t, "")

	w := env.do(t, http.MethodPost, "/windows", gin.H{"id": "w1", "title": "Game"}, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	var snap ports.OverlaySnapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	assert.Equal(t, "ov-w1", snap.ID)

	w = env.do(t, http.MethodPost, "/windows", gin.H{"id": "w2", "title": "Terminal"}, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = env.do(t, http.MethodPost, "/windows", gin.H{"id": "w3"}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodGet, "/overlays/ov-w1", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	require.Len(t, snap.Entries, 1)

	w = env.do(t, http.MethodGet, "/overlays", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []ports.OverlaySnapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Len(t, list, 1)

	w = env.do(t, http.MethodDelete, "/windows/w1", nil, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = env.do(t, http.MethodDelete, "/windows/w1", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, http.MethodGet, "/overlays/ov-w1", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_Toggle(t *testing.T) {
	env := newTestEnv(t, "")

	w := env.do(t, http.MethodPost, "/toggle", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"state":"inactive"}`, w.Body.String())
	assert.Equal(t, 1, env.overlays.toggled)
}

func TestRouter_Settings(t *testing.T) {
	env := newTestEnv(t, "")

	w := env.do(t, http.MethodPut, "/settings", gin.H{"channel": "#Other", "scrollback": 10}, nil)
	require.Equal(t, http.StatusAccepted, w.Code)

	w = env.do(t, http.MethodPut, "/settings", gin.H{"chat_text_color": "#00ff00"}, nil)
	require.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, 2, env.debouncer.calls)
	assert.Empty(t, env.overlays.applied)

	env.debouncer.Flush()
	require.Len(t, env.overlays.applied, 1)
	assert.Equal(t, float64(10), env.overlays.applied[0].Scrollback)
	assert.Equal(t, "#00ff00", env.overlays.applied[0].ChatTextColor)
	assert.Equal(t, "other", env.overlays.channels[0])

	w = env.do(t, http.MethodGet, "/settings", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var body settingsView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "other", body.Channel)
	assert.Equal(t, "#00ff00", body.Overlay.ChatTextColor)
}

type settingsView struct {
	Channel string         `json:"channel"`
	Overlay config.Overlay `json:"overlay"`
}

func TestRouter_SettingsRejectsInvalid(t *testing.T) {
	env := newTestEnv(t, "")

	w := env.do(t, http.MethodPut, "/settings", gin.H{"window_regex": "("}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPut, "/settings", gin.H{"x_position": 3}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	assert.Equal(t, 0, env.debouncer.calls)
	assert.Equal(t, "[Gg]ame", env.manager.Get().Overlay.WindowRegex)
}

func TestRouter_BearerAuth(t *testing.T) {
	env := newTestEnv(t, "secret")

	w := env.do(t, http.MethodGet, "/status", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(t, http.MethodGet, "/status", nil, map[string]string{"Authorization": "Bearer wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(t, http.MethodGet, "/status", nil, map[string]string{"Authorization": "Bearer secret"})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_MetricsBasicAuth(t *testing.T) {
	env := newTestEnv(t, "secret")

	w := env.do(t, http.MethodGet, "/metrics", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	req.SetBasicAuth("admin", "secret")
	rec := httptest.NewRecorder()
	env.router.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_MetricsLocalOnlyWithoutToken(t *testing.T) {
	env := newTestEnv(t, "")

	w := env.do(t, http.MethodGet, "/metrics", nil, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	req.RemoteAddr = "127.0.0.1:40000"
	rec := httptest.NewRecorder()
	env.router.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
