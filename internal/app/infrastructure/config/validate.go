package config

import (
	"errors"
	"fmt"
	"github.com/dlclark/regexp2"
	"net/url"
	"regexp"
	"strings"
)

var colorRe = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)

// CompileWindowRegex compiles a window-title pattern with ECMAScript semantics.
func CompileWindowRegex(pattern string) (*regexp2.Regexp, error) {
	re, err := regexp2.Compile(pattern, regexp2.ECMAScript)
	if err != nil {
		return nil, fmt.Errorf("overlay.window_regex: %w", err)
	}
	return re, nil
}

func (m *Manager) validate(cfg *Config) error {
	// app
	validLevels := map[string]bool{"trace": true, "debug": true, "info": true, "warn": true, "error": true}
	if cfg.App.LogLevel != "" && !validLevels[cfg.App.LogLevel] {
		return fmt.Errorf("app.log_level must be one of trace, debug, info, warn, error; got %s", cfg.App.LogLevel)
	}

	validModes := map[string]bool{"debug": true, "release": true, "test": true}
	if cfg.App.GinMode != "" && !validModes[cfg.App.GinMode] {
		return fmt.Errorf("app.gin_mode must be one of debug, release, test; got %s", cfg.App.GinMode)
	}

	if cfg.App.ListenAddr == "" {
		return errors.New("app.listen_addr is required")
	}

	if cfg.App.SettingsDebounce < 0 {
		return errors.New("app.settings_debounce must be >= 0")
	}

	// twitch
	if cfg.Twitch.Server == "" {
		cfg.Twitch.Server = DefaultServer
	}
	u, err := url.Parse(cfg.Twitch.Server)
	if err != nil || (u.Scheme != "ws" && u.Scheme != "wss") || u.Host == "" {
		return fmt.Errorf("twitch.server must be a ws:// or wss:// url; got %s", cfg.Twitch.Server)
	}

	cfg.Twitch.Channel = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(cfg.Twitch.Channel), "#"))
	if strings.ContainsAny(cfg.Twitch.Channel, " ,:") {
		return fmt.Errorf("twitch.channel is not a valid channel name: %s", cfg.Twitch.Channel)
	}

	if (cfg.Twitch.Username == "") != (cfg.Twitch.OAuth == "") {
		return errors.New("twitch.username and twitch.oauth must both be set or both be empty")
	}

	// proxy
	if cfg.Proxy != nil && (cfg.Proxy.Address != "" || cfg.Proxy.Port != 0) {
		if cfg.Proxy.Address == "" || cfg.Proxy.Port <= 0 || cfg.Proxy.Port > 65535 {
			return errors.New("proxy.address and proxy.port (1-65535) must both be set")
		}
	}

	// overlay
	if _, err := CompileWindowRegex(cfg.Overlay.WindowRegex); err != nil {
		return err
	}
	if cfg.Overlay.Scrollback < 1 || cfg.Overlay.Scrollback > 1000 {
		return errors.New("overlay.scrollback must be [1,1000]")
	}
	if cfg.Overlay.XPosition < 0 || cfg.Overlay.XPosition > 1 {
		return errors.New("overlay.x_position must be [0,1]")
	}
	if cfg.Overlay.YPosition < 0 || cfg.Overlay.YPosition > 1 {
		return errors.New("overlay.y_position must be [0,1]")
	}
	if cfg.Overlay.ChatWidth <= 0 {
		return errors.New("overlay.chat_width must be > 0")
	}
	if !colorRe.MatchString(cfg.Overlay.ChatTextColor) {
		return fmt.Errorf("overlay.chat_text_color must be #rgb, #rrggbb or #rrggbbaa; got %s", cfg.Overlay.ChatTextColor)
	}
	if !colorRe.MatchString(cfg.Overlay.ChatBackgroundColor) {
		return fmt.Errorf("overlay.chat_background_color must be #rgb, #rrggbb or #rrggbbaa; got %s", cfg.Overlay.ChatBackgroundColor)
	}
	if cfg.Overlay.IdleTTL < 0 {
		return errors.New("overlay.idle_ttl must be >= 0")
	}

	// reconnect
	if cfg.Reconnect.Delay < 0 {
		return errors.New("reconnect.delay must be >= 0")
	}
	if cfg.Reconnect.MaxAttempts < 0 {
		return errors.New("reconnect.max_attempts must be >= 0")
	}
	if (cfg.Reconnect.Burst != 0 && cfg.Reconnect.Per == 0) || (cfg.Reconnect.Burst == 0 && cfg.Reconnect.Per != 0) {
		return errors.New("reconnect.burst and reconnect.per must both be set or both be zero")
	}

	return nil
}
