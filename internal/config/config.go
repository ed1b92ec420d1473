package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Settings is the only persisted config file schema.
type Settings struct {
	// Enabled gates the whole override feature.
	Enabled bool `toml:"enabled"`
	// IniPath is the emulator settings file the engine edits.
	IniPath string `toml:"ini_path"`
	// Section is the section holding the card slot keys.
	Section string `toml:"section"`
	// Key, when set, is the exact key treated as canonical before any
	// heuristic discovery runs.
	Key string `toml:"key,omitempty"`
	// CandidateKeys are alternate spellings of the slot filename key across
	// emulator versions, in priority order.
	CandidateKeys []string `toml:"candidate_keys"`
	// EnableKeys are alternate spellings of the slot enable flag.
	EnableKeys []string `toml:"enable_keys"`
	// CardsDir is where per-game card files are created.
	CardsDir string `toml:"cards_dir"`
	// TemplatePath is the blank card copied for new games.
	TemplatePath string `toml:"template_path"`
	// Platform filters which runs are in scope.
	Platform string `toml:"platform"`
	// PlatformAliases are additional accepted platform names.
	PlatformAliases []string `toml:"platform_aliases"`
	// PreferDiscovered flips key resolution to try heuristic discovery
	// before the configured Key.
	PreferDiscovered bool `toml:"prefer_discovered"`

	Source string `toml:"-"`
}

func Default() Settings {
	return Settings{
		Enabled:         true,
		Section:         "MemoryCards",
		CandidateKeys:   []string{"Slot1_Filename", "Mcd001"},
		EnableKeys:      []string{"Slot1_Enable", "Mcd001Enable"},
		Platform:        "PlayStation 2",
		PlatformAliases: []string{"PS2"},
	}
}

func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".cardswap", "config.toml")
}

func Load(path string) (Settings, error) {
	cfg := Default()
	if path == "" {
		path = DefaultPath()
	}
	if path == "" {
		return cfg, errors.New("config path is empty and $HOME is not set")
	}
	cfg.Source = path

	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return applyEnv(cfg), nil
		}
		return cfg, err
	}

	if err := toml.Unmarshal(content, &cfg); err != nil {
		return cfg, err
	}
	return applyEnv(cfg), nil
}

func applyEnv(cfg Settings) Settings {
	if env := strings.TrimSpace(os.Getenv("CARDSWAP_INI_PATH")); env != "" {
		cfg.IniPath = env
	}
	if env := strings.TrimSpace(os.Getenv("CARDSWAP_CARDS_DIR")); env != "" {
		cfg.CardsDir = env
	}
	return cfg
}
