package config

import "time"

const DefaultServer = "wss://irc-ws.chat.twitch.tv:443"

func (m *Manager) GetDefault() *Config {
	return &Config{
		App: App{
			LogLevel:         "info",
			LogFile:          "logs/overlay.log",
			GinMode:          "release",
			ListenAddr:       "127.0.0.1:8787",
			SettingsDebounce: 300 * time.Millisecond,
		},
		Twitch: Twitch{
			Server: DefaultServer,
		},
		Overlay: Overlay{
			WindowRegex:         "[Gg]ame",
			Scrollback:          25,
			XPosition:           0,
			YPosition:           0,
			ChatWidth:           512,
			ChatFont:            "Sans 12",
			ChatTextColor:       "#ffffff",
			ChatBackgroundColor: "#0000007f",
		},
		Reconnect: Reconnect{
			Enabled:     false,
			Delay:       5 * time.Second,
			MaxAttempts: 10,
			Per:         time.Minute,
			Burst:       3,
		},
	}
}
