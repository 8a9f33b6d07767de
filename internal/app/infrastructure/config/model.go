package config

import "time"

type Config struct {
	App       App       `json:"app"`
	Twitch    Twitch    `json:"twitch"`
	Proxy     *Proxy    `json:"proxy"`
	Overlay   Overlay   `json:"overlay"`
	Reconnect Reconnect `json:"reconnect"`
}

type App struct {
	LogLevel   string `json:"log_level"`
	LogFile    string `json:"log_file"`
	GinMode    string `json:"gin_mode"`
	ListenAddr string `json:"listen_addr"`
	AuthToken  string `json:"auth_token"`
	// SettingsDebounce coalesces settings changes before they are applied to overlays.
	SettingsDebounce time.Duration `json:"settings_debounce"`
}

type Twitch struct {
	Server  string `json:"server"`
	Channel string `json:"channel"`
	// Username and OAuth are optional; without them the anonymous login is used.
	Username string `json:"username"`
	OAuth    string `json:"oauth"`
}

type Proxy struct {
	Address string `json:"address"`
	Port    int    `json:"port"`
}

type Overlay struct {
	WindowRegex         string        `json:"window_regex"`
	Scrollback          float64       `json:"scrollback"`
	XPosition           float64       `json:"x_position"`
	YPosition           float64       `json:"y_position"`
	ChatWidth           float64       `json:"chat_width"`
	ChatFont            string        `json:"chat_font"`
	ChatTextColor       string        `json:"chat_text_color"`
	ChatBackgroundColor string        `json:"chat_background_color"`
	DisableUnredirect   bool          `json:"disable_unredirect"`
	IdleTTL             time.Duration `json:"idle_ttl"` // 0 keeps overlays until the window closes
}

type Reconnect struct {
	Enabled     bool          `json:"enabled"`
	Delay       time.Duration `json:"delay"`
	MaxAttempts int           `json:"max_attempts"`
	Per         time.Duration `json:"per"`
	Burst       int           `json:"burst"`
}

// Clone returns a copy that shares nothing mutable with c.
func (c *Config) Clone() *Config {
	out := *c
	if c.Proxy != nil {
		p := *c.Proxy
		out.Proxy = &p
	}
	return &out
}
