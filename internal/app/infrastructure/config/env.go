package config

import (
	"errors"
	"github.com/joho/godotenv"
	"io/fs"
	"os"
)

const envPrefix = "TWITCHOVERLAY_"

func loadDotEnv(path string) error {
	// existing environment variables win over .env entries
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func applyEnv(cfg *Config) {
	overrides := []struct {
		key    string
		target *string
	}{
		{"LOG_LEVEL", &cfg.App.LogLevel},
		{"LISTEN_ADDR", &cfg.App.ListenAddr},
		{"AUTH_TOKEN", &cfg.App.AuthToken},
		{"SERVER", &cfg.Twitch.Server},
		{"CHANNEL", &cfg.Twitch.Channel},
		{"USERNAME", &cfg.Twitch.Username},
		{"OAUTH", &cfg.Twitch.OAuth},
		{"WINDOW_REGEX", &cfg.Overlay.WindowRegex},
	}

	for _, o := range overrides {
		if v, ok := os.LookupEnv(envPrefix + o.key); ok && v != "" {
			*o.target = v
		}
	}
}
