// Package catalog loads the service configuration: source endpoints,
// timeouts, search bounds, and the mapping-snapshot locations.
package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	defaultRepodataBaseURL = "https://conda.anaconda.org"
	defaultPathsEndpoint   = "https://cforge.quansight.dev/path_to_artifacts/find_artifacts.json"
)

// Config is the validated runtime configuration.
type Config struct {
	RepodataBaseURL string
	RepodataTimeout time.Duration

	PathsEndpoint string
	PathsTimeout  time.Duration

	ArchiveTimeout time.Duration

	CLIHelpAllowed []string
	CLIHelpTimeout time.Duration

	SearchDefaultLimit int
	SearchMaxLimit     int

	SnapshotDBPath   string
	SnapshotFilePath string

	MetricsListenAddress string
}

type rawConfig struct {
	Repodata      rawEndpoint      `mapstructure:"repodata"`
	Paths         rawEndpoint      `mapstructure:"paths"`
	Archive       rawTimeout       `mapstructure:"archive"`
	CLIHelp       rawCLIHelp       `mapstructure:"cliHelp"`
	Search        rawSearch        `mapstructure:"search"`
	Snapshot      rawSnapshot      `mapstructure:"snapshot"`
	Observability rawObservability `mapstructure:"observability"`
}

type rawEndpoint struct {
	BaseURL        string `mapstructure:"baseURL"`
	Endpoint       string `mapstructure:"endpoint"`
	TimeoutSeconds int    `mapstructure:"timeoutSeconds"`
}

type rawTimeout struct {
	TimeoutSeconds int `mapstructure:"timeoutSeconds"`
}

type rawCLIHelp struct {
	AllowedExecutables []string `mapstructure:"allowedExecutables"`
	TimeoutSeconds     int      `mapstructure:"timeoutSeconds"`
}

type rawSearch struct {
	DefaultLimit int `mapstructure:"defaultLimit"`
	MaxLimit     int `mapstructure:"maxLimit"`
}

type rawSnapshot struct {
	DBPath   string `mapstructure:"dbPath"`
	FilePath string `mapstructure:"filePath"`
}

type rawObservability struct {
	ListenAddress string `mapstructure:"listenAddress"`
}

func newConfigViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	setDefaults(v)
	v.SetEnvPrefix("CONDAMETA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("repodata.baseURL", defaultRepodataBaseURL)
	v.SetDefault("repodata.timeoutSeconds", 30)
	v.SetDefault("paths.endpoint", defaultPathsEndpoint)
	v.SetDefault("paths.timeoutSeconds", 10)
	v.SetDefault("archive.timeoutSeconds", 30)
	v.SetDefault("cliHelp.allowedExecutables", []string{"conda", "mamba", "micromamba", "pixi"})
	v.SetDefault("cliHelp.timeoutSeconds", 30)
	v.SetDefault("search.defaultLimit", 25)
	v.SetDefault("search.maxLimit", 200)
	v.SetDefault("snapshot.dbPath", defaultSnapshotDBPath())
	v.SetDefault("snapshot.filePath", "")
	v.SetDefault("observability.listenAddress", "")
}

func defaultSnapshotDBPath() string {
	base, err := os.UserCacheDir()
	if err != nil {
		base = "."
	}
	return filepath.Join(base, "condameta", "mappings.db")
}

// Loader reads and validates the configuration file.
type Loader struct {
	logger *zap.Logger
}

func NewLoader(logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{logger: logger.Named("catalog")}
}

// Load reads configPath (optional; defaults apply when empty) and returns
// the validated configuration.
func (l *Loader) Load(configPath string) (Config, error) {
	v := newConfigViper()
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", configPath, err)
		}
		l.logger.Info("config loaded", zap.String("path", configPath))
	}

	var raw rawConfig
	if err := v.Unmarshal(&raw); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	return validate(raw)
}

func validate(raw rawConfig) (Config, error) {
	cfg := Config{
		RepodataBaseURL:      strings.TrimRight(raw.Repodata.BaseURL, "/"),
		RepodataTimeout:      time.Duration(raw.Repodata.TimeoutSeconds) * time.Second,
		PathsEndpoint:        raw.Paths.Endpoint,
		PathsTimeout:         time.Duration(raw.Paths.TimeoutSeconds) * time.Second,
		ArchiveTimeout:       time.Duration(raw.Archive.TimeoutSeconds) * time.Second,
		CLIHelpAllowed:       raw.CLIHelp.AllowedExecutables,
		CLIHelpTimeout:       time.Duration(raw.CLIHelp.TimeoutSeconds) * time.Second,
		SearchDefaultLimit:   raw.Search.DefaultLimit,
		SearchMaxLimit:       raw.Search.MaxLimit,
		SnapshotDBPath:       raw.Snapshot.DBPath,
		SnapshotFilePath:     raw.Snapshot.FilePath,
		MetricsListenAddress: raw.Observability.ListenAddress,
	}

	if cfg.RepodataBaseURL == "" {
		return Config{}, fmt.Errorf("repodata.baseURL is required")
	}
	if cfg.PathsEndpoint == "" {
		return Config{}, fmt.Errorf("paths.endpoint is required")
	}
	if cfg.SearchDefaultLimit <= 0 {
		return Config{}, fmt.Errorf("search.defaultLimit must be > 0")
	}
	if cfg.SearchMaxLimit < cfg.SearchDefaultLimit {
		return Config{}, fmt.Errorf("search.maxLimit must be >= search.defaultLimit")
	}
	if len(cfg.CLIHelpAllowed) == 0 {
		return Config{}, fmt.Errorf("cliHelp.allowedExecutables must not be empty")
	}
	if cfg.SnapshotDBPath == "" {
		return Config{}, fmt.Errorf("snapshot.dbPath is required")
	}
	return cfg, nil
}
