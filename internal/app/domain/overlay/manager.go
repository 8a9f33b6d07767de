package overlay

import (
	"log/slog"
	"sort"
	"sync"
	"time"
	"twitchoverlay/internal/app/adapters/metrics"
	"twitchoverlay/internal/app/adapters/platform/twitch/irc"
	"twitchoverlay/internal/app/infrastructure/config"
	"twitchoverlay/internal/app/infrastructure/storage"
	"twitchoverlay/internal/app/ports"
	"twitchoverlay/pkg/logger"

	"github.com/google/uuid"
)

const (
	infoEnabled      = "Twitch Overlay enabled"
	infoClosed       = "Twitch connection closed. Restart extension"
	infoReconnecting = "Twitch connection closed. Reconnecting..."
	unknownSender    = "UNKNOWN"
)

// Overlay is the chat attached to one window. It follows the session until
// released.
type Overlay struct {
	id        string
	windowID  string
	title     string
	chat      *Chat
	createdAt time.Time

	once   sync.Once
	unsubs []func()
}

func (o *Overlay) Chat() *Chat {
	return o.chat
}

func (o *Overlay) release() {
	o.once.Do(func() {
		for _, unsub := range o.unsubs {
			unsub()
		}
	})
}

func (o *Overlay) snapshot(withEntries bool) ports.OverlaySnapshot {
	s := ports.OverlaySnapshot{
		ID:         o.id,
		WindowID:   o.windowID,
		Title:      o.title,
		Scrollback: o.chat.Scrollback(),
		Style:      o.chat.Style(),
		CreatedAt:  o.createdAt,
	}
	if withEntries {
		s.Entries = o.chat.Entries()
	}
	return s
}

// Manager keeps one overlay per window whose title matches the window regex
// and feeds each of them from the shared chat session.
type Manager struct {
	log      logger.Logger
	session  ports.SessionPort
	chat     ports.ChatPort
	overlays ports.RegistryPort[*Overlay]
	newID    func() string

	mu       sync.Mutex
	settings config.Overlay
	matcher  *Matcher
	windows  map[string]string // window id -> title
	byWindow map[string]string // window id -> overlay id
	enabled  bool
	failed   bool
	closed   bool
	unsubs   []func()
}

func NewManager(log logger.Logger, session ports.SessionPort, chat ports.ChatPort, settings config.Overlay) (*Manager, error) {
	matcher, err := NewMatcher(settings.WindowRegex)
	if err != nil {
		return nil, err
	}

	m := &Manager{
		log:      log,
		session:  session,
		chat:     chat,
		newID:    uuid.NewString,
		settings: settings,
		matcher:  matcher,
		windows:  make(map[string]string),
		byWindow: make(map[string]string),
		enabled:  true,
	}
	m.overlays = storage.NewRegistry[*Overlay](16, settings.IdleTTL, m.onEvict)

	m.unsubs = append(m.unsubs,
		session.OnConnected(func() {
			m.mu.Lock()
			m.failed = false
			m.mu.Unlock()
		}),
		session.OnError(func(err error) {
			m.mu.Lock()
			m.failed = true
			m.mu.Unlock()
			m.log.Warn("Chat session error", slog.String("error", err.Error()))
		}),
	)

	return m, nil
}

// WindowCreated registers a window and overlays it when the title matches.
// An empty windowID gets a generated one. A window that already has an
// overlay keeps it.
func (m *Manager) WindowCreated(windowID, title string) (ports.OverlaySnapshot, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ports.OverlaySnapshot{}, false
	}
	if windowID == "" {
		windowID = m.newID()
	}
	m.windows[windowID] = title

	if id, ok := m.byWindow[windowID]; ok {
		if o, ok := m.overlays.Get(id); ok {
			return o.snapshot(false), true
		}
	}

	if !m.enabled || !m.matcher.Matches(title) {
		m.log.Debug("Window not overlaid", slog.String("window", windowID), slog.String("title", title))
		return ports.OverlaySnapshot{WindowID: windowID, Title: title}, false
	}

	o := m.addOverlayLocked(windowID, title)
	return o.snapshot(false), true
}

func (m *Manager) addOverlayLocked(windowID, title string) *Overlay {
	o := &Overlay{
		id:        m.newID(),
		windowID:  windowID,
		title:     title,
		chat:      NewChat(m.settings),
		createdAt: time.Now(),
	}
	o.chat.AddInfo(infoEnabled)

	o.unsubs = []func(){
		m.session.OnClose(func() {
			if m.chat.Retrying() {
				o.chat.AddInfo(infoReconnecting)
				return
			}
			o.chat.AddInfo(infoClosed)
		}),
		m.session.OnMessage(func(msg *irc.Message) {
			if msg.Command != "PRIVMSG" {
				return
			}
			from, ok := msg.Tags.Get("display-name")
			if !ok || from == "" {
				from = unknownSender
			}
			o.chat.AddMessage(from, msg.Text())
			metrics.OverlayMessages.Inc()
		}),
		m.session.OnJoin(func(channel string) {
			o.chat.AddInfo("Joining #" + channel)
		}),
		m.session.OnPart(func(channel string) {
			o.chat.AddInfo("Leaving #" + channel)
		}),
	}

	m.overlays.Set(o.id, o)
	m.byWindow[windowID] = o.id
	metrics.OverlaysActive.Set(float64(m.overlays.Len()))

	m.log.Info("Overlay added", slog.String("overlay", o.id), slog.String("window", windowID), slog.String("title", title))
	return o
}

// WindowClosed forgets the window and removes its overlay.
func (m *Manager) WindowClosed(windowID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, known := m.windows[windowID]
	delete(m.windows, windowID)

	return m.removeOverlayLocked(windowID) || known
}

func (m *Manager) removeOverlayLocked(windowID string) bool {
	id, ok := m.byWindow[windowID]
	if !ok {
		return false
	}
	delete(m.byWindow, windowID)

	o, ok := m.overlays.Delete(id)
	if !ok {
		return false
	}
	o.release()
	metrics.OverlaysActive.Set(float64(m.overlays.Len()))

	m.log.Info("Overlay removed", slog.String("overlay", id), slog.String("window", windowID))
	return true
}

func (m *Manager) removeAllOverlaysLocked() {
	for _, o := range m.overlays.Drain() {
		o.release()
	}
	clear(m.byWindow)
	metrics.OverlaysActive.Set(0)
}

func (m *Manager) addOverlaysLocked() {
	for windowID, title := range m.windows {
		if _, ok := m.byWindow[windowID]; ok {
			continue
		}
		if m.matcher.Matches(title) {
			m.addOverlayLocked(windowID, title)
		}
	}
}

func (m *Manager) onEvict(id string, o *Overlay) {
	o.release()

	m.mu.Lock()
	if m.byWindow[o.windowID] == id {
		delete(m.byWindow, o.windowID)
	}
	m.mu.Unlock()

	metrics.OverlaysActive.Set(float64(m.overlays.Len()))
	m.log.Info("Overlay expired", slog.String("overlay", id), slog.String("window", o.windowID))
}

func (m *Manager) Overlays() []ports.OverlaySnapshot {
	out := make([]ports.OverlaySnapshot, 0, m.overlays.Len())
	for _, o := range m.overlays.All() {
		out = append(out, o.snapshot(false))
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func (m *Manager) Overlay(id string) (ports.OverlaySnapshot, bool) {
	o, ok := m.overlays.Get(id)
	if !ok {
		return ports.OverlaySnapshot{}, false
	}
	return o.snapshot(true), true
}

// ApplySettings re-matches every known window when the regex changed and
// restyles the remaining overlays otherwise. A changed channel is joined.
func (m *Manager) ApplySettings(settings config.Overlay, channel string) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}

	if settings.WindowRegex != m.matcher.Pattern() {
		matcher, err := NewMatcher(settings.WindowRegex)
		if err != nil {
			m.mu.Unlock()
			return err
		}
		m.matcher = matcher
		m.settings = settings

		m.removeAllOverlaysLocked()
		if m.enabled {
			m.addOverlaysLocked()
		}
		m.log.Info("Window regex changed", slog.String("pattern", settings.WindowRegex))
	} else {
		m.settings = settings
		style := styleFrom(settings)
		for _, o := range m.overlays.All() {
			o.chat.SetStyle(style)
			o.chat.SetScrollback(settings.Scrollback)
		}
	}
	m.mu.Unlock()

	if channel != m.chat.Channel() {
		return m.chat.SetChannel(channel)
	}
	return nil
}

func (m *Manager) UnredirectDisabled() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.settings.DisableUnredirect
}

func (m *Manager) Indicator() ports.IndicatorState {
	m.mu.Lock()
	enabled, failed := m.enabled, m.failed
	m.mu.Unlock()

	switch {
	case !enabled:
		return ports.IndicatorInactive
	case failed:
		return ports.IndicatorError
	case m.session.State() == irc.StateConnected:
		return ports.IndicatorActive
	}
	return ports.IndicatorInactive
}

// Toggle disables overlays when they are shown and shows them again when
// disabled. It does nothing in the error state.
func (m *Manager) Toggle() ports.IndicatorState {
	if m.Indicator() == ports.IndicatorError {
		return ports.IndicatorError
	}

	m.mu.Lock()
	if m.enabled {
		m.enabled = false
		m.removeAllOverlaysLocked()
		m.log.Info("Overlays disabled")
	} else if !m.closed {
		m.enabled = true
		m.addOverlaysLocked()
		m.log.Info("Overlays enabled")
	}
	m.mu.Unlock()

	return m.Indicator()
}

// Shutdown removes every overlay and closes the chat session.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	m.enabled = false
	m.removeAllOverlaysLocked()
	clear(m.windows)
	unsubs := m.unsubs
	m.unsubs = nil
	m.mu.Unlock()

	for _, unsub := range unsubs {
		unsub()
	}
	if err := m.chat.Close(); err != nil {
		m.log.Error("Failed to close chat session", err)
	}
}
