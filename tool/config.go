package tool

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/moyoez/fileuploader/types"
)

const (
	DefaultEndpoint  = "https://httpbin.org/post" // public echo service
	DefaultFieldName = "file"
	DefaultPort      = 53318
)

var (
	ConfigPath    = "config.yaml" // be aware that it can be changed, default to ./config.yaml
	CurrentConfig types.AppConfig
)

func DefaultConfig() types.AppConfig {
	return types.AppConfig{
		Endpoint:          DefaultEndpoint,
		FieldName:         DefaultFieldName,
		Port:              DefaultPort,
		TimeoutSeconds:    0, // no timeout, uploads settle when the network does
		ProgressPerSecond: 10,
		MarkFailedEntries: true,
		StageFolder:       "staged",
	}
}

// LoadConfig reads path (ConfigPath when empty). A missing file is created with defaults.
func LoadConfig(path string) (types.AppConfig, error) {
	if path == "" {
		path = ConfigPath
	}
	ConfigPath = path

	cfg := DefaultConfig()

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			if writeErr := writeConfig(path, cfg); writeErr != nil {
				return cfg, fmt.Errorf("config file not found, and failed to generate default config: %v", writeErr)
			}
			DefaultLogger.Infof("Created new config file at %s", path)
			CurrentConfig = cfg
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config file: %v", err)
	}
	if info.IsDir() {
		return cfg, fmt.Errorf("config file path is a directory: %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %v", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file: %v", err)
	}
	normalizeConfig(&cfg)

	CurrentConfig = cfg
	return cfg, nil
}

// ApplyFlags merges CLI overrides into cfg.
func ApplyFlags(cfg *types.AppConfig, flags types.Config) {
	if flags.UseEndpoint != "" {
		cfg.Endpoint = flags.UseEndpoint
	}
	if flags.UseFieldName != "" {
		cfg.FieldName = flags.UseFieldName
	}
	if flags.UsePort > 0 {
		cfg.Port = flags.UsePort
	}
	if flags.SkipNotify {
		cfg.NotifySocket = ""
	}
	CurrentConfig = *cfg
}

// blank fields in a hand-edited file fall back to defaults
func normalizeConfig(cfg *types.AppConfig) {
	def := DefaultConfig()
	if cfg.Endpoint == "" {
		cfg.Endpoint = def.Endpoint
	}
	if cfg.FieldName == "" {
		cfg.FieldName = def.FieldName
	}
	if cfg.Port <= 0 {
		cfg.Port = def.Port
	}
	if cfg.ProgressPerSecond < 0 {
		cfg.ProgressPerSecond = 0
	}
	if cfg.StageFolder == "" {
		cfg.StageFolder = def.StageFolder
	}
}

func writeConfig(path string, cfg types.AppConfig) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func GetCurrentConfig() *types.AppConfig {
	return &CurrentConfig
}
