package commands

import (
	"bbm-backend/internal/configutil"
	"bbm-backend/internal/providers"
	"bbm-backend/internal/regions"
	"bbm-backend/internal/telemetry"
	"fmt"
	"os"
	"strconv"
	"time"
)

type ProvidersConfig struct {
	PertaminaURL string `json:"pertamina_url"`
	ShellURL     string `json:"shell_url"`
	BPURL        string `json:"bp_url"`
	// Timeout of a single page request.
	Timeout           string   `json:"timeout"`
	RequestsPerSecond float64  `json:"requests_per_second"`
	Disabled          []string `json:"disabled"`
}

// Config is read from config.json5 (and config.local.json5), durations are Go
// duration strings ("90s", "1h").
type Config struct {
	Port      int    `json:"port"`
	BasePath  string `json:"base_path"`
	StaticDir string `json:"static_dir"`
	Verbose   bool   `json:"verbose"`

	SnapshotTTL    string `json:"snapshot_ttl"`
	RegionTTL      string `json:"region_ttl"`
	AdapterTimeout string `json:"adapter_timeout"`
	RegionAPIURL   string `json:"region_api_url"`
	// SimilarityThreshold enables fuzzy region matching, a negative value disables it.
	SimilarityThreshold float64 `json:"similarity_threshold"`
	// RefreshSchedule is a cron spec, empty disables scheduled refreshes.
	RefreshSchedule string `json:"refresh_schedule"`

	Providers       ProvidersConfig                   `json:"providers"`
	StaticProviders map[string]providers.StaticConfig `json:"static_providers"`
	Telemetry       telemetry.Config                  `json:"telemetry"`
}

func defaultConfig() Config {
	return Config{
		Port:                3000,
		SnapshotTTL:         "1h",
		RegionTTL:           "24h",
		AdapterTimeout:      "90s",
		RegionAPIURL:        regions.DefaultBaseURL,
		SimilarityThreshold: 0.9,
		Providers: ProvidersConfig{
			PertaminaURL:      providers.PertaminaURL,
			ShellURL:          providers.ShellURL,
			BPURL:             providers.BPURL,
			Timeout:           "60s",
			RequestsPerSecond: 2,
		},
	}
}

// durations holds the parsed duration fields of Config.
type durations struct {
	snapshotTTL     time.Duration
	regionTTL       time.Duration
	adapterTimeout  time.Duration
	providerTimeout time.Duration
}

func (c Config) durations() (durations, error) {
	var out durations
	fields := []struct {
		name  string
		value string
		dest  *time.Duration
	}{
		{name: "snapshot_ttl", value: c.SnapshotTTL, dest: &out.snapshotTTL},
		{name: "region_ttl", value: c.RegionTTL, dest: &out.regionTTL},
		{name: "adapter_timeout", value: c.AdapterTimeout, dest: &out.adapterTimeout},
		{name: "providers.timeout", value: c.Providers.Timeout, dest: &out.providerTimeout},
	}
	for _, field := range fields {
		if field.value == "" {
			continue
		}
		parsed, err := time.ParseDuration(field.value)
		if err != nil {
			return out, fmt.Errorf("config %s: %w", field.name, err)
		}
		*field.dest = parsed
	}
	return out, nil
}

// loadConfig reads the config file falling back to defaults, PORT in the
// environment overrides the configured port.
func loadConfig(path string) (Config, error) {
	config, err := configutil.ReadConfigOrDefault(path, defaultConfig())
	if err != nil {
		return Config{}, err
	}

	port := os.Getenv("PORT")
	if port != "" {
		parsed, err := strconv.Atoi(port)
		if err != nil {
			return Config{}, fmt.Errorf("PORT %q: %w", port, err)
		}
		config.Port = parsed
	}

	_, err = config.durations()
	if err != nil {
		return Config{}, err
	}
	return config, nil
}
