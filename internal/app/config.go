package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"github.com/yourusername/console-landing/internal/widget"
)

// Config holds the application configuration
type Config struct {
	// Console connection
	BaseURL       string
	CSRFToken     string
	SessionCookie string
	Timeout       time.Duration

	// Polling configuration
	PollInterval        time.Duration
	TransitionalRefresh bool
	AutoRefresh         time.Duration

	// UI configuration
	Locale      string
	PageSize    int
	DefaultPage string
	NoColor     bool

	// Preference storage
	StoragePath string

	// Item enrichment
	EnrichRate          int
	EnrichMaxConcurrent int
	EnrichCacheSize     int
	EnrichCacheTTL      time.Duration

	// Logging configuration
	LogLevel string
	LogFile  string

	Pages []PageConfig
}

// SortKey is an entry of a page's sort menu
type SortKey struct {
	Key  string `mapstructure:"key"`
	Name string `mapstructure:"name"`
}

// PageConfig describes one landing page
type PageConfig struct {
	Name  string `mapstructure:"name"`
	Title string `mapstructure:"title"`
	// Path is the page location mirrored with the structured filter
	Path string `mapstructure:"path"`
	// Endpoint is the JSON endpoint items are fetched from
	Endpoint       string          `mapstructure:"endpoint"`
	Sort           string          `mapstructure:"sort"`
	SortKeys       []SortKey       `mapstructure:"sort_keys"`
	FilterKeys     []string        `mapstructure:"filter_keys"`
	Columns        []string        `mapstructure:"columns"`
	StorageService bool            `mapstructure:"storage_service"`
	EnrichURL      string          `mapstructure:"enrich_url"`
	EnrichColumns  []string        `mapstructure:"enrich_columns"`
	Actions        []widget.Action `mapstructure:"actions"`
}

// Page returns the page called name
func (c *Config) Page(name string) (PageConfig, bool) {
	for _, p := range c.Pages {
		if p.Name == name {
			return p, true
		}
	}
	return PageConfig{}, false
}

// LoadConfig loads configuration from file and environment. A .env file in
// the working directory is applied to the environment first.
func LoadConfig(configFile string) (*Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}

	v := viper.New()

	// Defaults – nested keys align with config/default.yaml
	v.SetDefault("console.base_url", "http://localhost:8888")
	v.SetDefault("console.csrf_token", "")
	v.SetDefault("console.session_cookie", "")
	v.SetDefault("console.timeout", "30s")

	v.SetDefault("poll.interval", "5s")
	v.SetDefault("poll.transitional_refresh", true)
	v.SetDefault("poll.auto_refresh", "0s")

	v.SetDefault("ui.locale", "en")
	v.SetDefault("ui.page_size", 100)
	v.SetDefault("ui.default_page", "instances")
	v.SetDefault("ui.no_color", false)

	v.SetDefault("enrich.rate_per_second", 10)
	v.SetDefault("enrich.max_concurrent", 4)
	v.SetDefault("enrich.cache_size", 512)
	v.SetDefault("enrich.cache_ttl", "30s")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.file", filepath.Join(os.TempDir(), "console-landing.log"))

	if home, err := os.UserHomeDir(); err == nil {
		v.SetDefault("storage.path", filepath.Join(home, ".console-landing", "preferences.db"))
	} else {
		v.SetDefault("storage.path", filepath.Join(os.TempDir(), "console-landing-preferences.db"))
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath("$HOME/.console-landing")
		v.AddConfigPath("/etc/console-landing")
	}

	v.SetEnvPrefix("CONSOLE_LANDING")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := &Config{
		BaseURL:             v.GetString("console.base_url"),
		CSRFToken:           v.GetString("console.csrf_token"),
		SessionCookie:       v.GetString("console.session_cookie"),
		Timeout:             v.GetDuration("console.timeout"),
		PollInterval:        v.GetDuration("poll.interval"),
		TransitionalRefresh: v.GetBool("poll.transitional_refresh"),
		AutoRefresh:         v.GetDuration("poll.auto_refresh"),
		Locale:              v.GetString("ui.locale"),
		PageSize:            v.GetInt("ui.page_size"),
		DefaultPage:         v.GetString("ui.default_page"),
		NoColor:             v.GetBool("ui.no_color"),
		StoragePath:         v.GetString("storage.path"),
		EnrichRate:          v.GetInt("enrich.rate_per_second"),
		EnrichMaxConcurrent: v.GetInt("enrich.max_concurrent"),
		EnrichCacheSize:     v.GetInt("enrich.cache_size"),
		EnrichCacheTTL:      v.GetDuration("enrich.cache_ttl"),
		LogLevel:            v.GetString("logging.level"),
		LogFile:             v.GetString("logging.file"),
	}

	if v.IsSet("pages") {
		if err := v.UnmarshalKey("pages", &cfg.Pages); err != nil {
			return nil, fmt.Errorf("failed to parse pages: %w", err)
		}
	}
	if len(cfg.Pages) == 0 {
		cfg.Pages = DefaultPages()
	}

	// Normalise zero values in case configuration omitted units or left blank
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 5 * time.Second
	}
	if cfg.AutoRefresh < 0 {
		cfg.AutoRefresh = 0
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = 100
	}
	if cfg.EnrichMaxConcurrent <= 0 {
		cfg.EnrichMaxConcurrent = 4
	}
	if cfg.EnrichCacheSize <= 0 {
		cfg.EnrichCacheSize = 512
	}
	if cfg.EnrichCacheTTL <= 0 {
		cfg.EnrichCacheTTL = 30 * time.Second
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.LogFile == "" {
		cfg.LogFile = filepath.Join(os.TempDir(), "console-landing.log")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the page catalogue
func (c *Config) Validate() error {
	seen := make(map[string]bool, len(c.Pages))
	for i, p := range c.Pages {
		if p.Name == "" {
			return fmt.Errorf("pages[%d]: name is required", i)
		}
		if seen[p.Name] {
			return fmt.Errorf("pages[%d]: duplicate page %q", i, p.Name)
		}
		seen[p.Name] = true
		if p.Endpoint == "" {
			return fmt.Errorf("page %s: endpoint is required", p.Name)
		}
	}
	if c.DefaultPage != "" && len(c.Pages) > 0 && !seen[c.DefaultPage] {
		c.DefaultPage = c.Pages[0].Name
	}
	return nil
}

func loadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// DefaultPages is the built-in page catalogue
func DefaultPages() []PageConfig {
	return []PageConfig{
		{
			Name:     "instances",
			Title:    "Instances",
			Path:     "/instances",
			Endpoint: "/instances/json",
			Sort:     "-launch_time",
			SortKeys: []SortKey{
				{Key: "-launch_time", Name: "Launch time: Newest to Oldest"},
				{Key: "launch_time", Name: "Launch time: Oldest to Newest"},
				{Key: "name", Name: "Name: A to Z"},
				{Key: "-name", Name: "Name: Z to A"},
				{Key: "status", Name: "Status"},
				{Key: "placement", Name: "Availability zone"},
			},
			FilterKeys: []string{"id", "name", "instance_type", "ip_address", "key_name", "placement", "security_groups", "status", "tags"},
			Columns:    []string{"name", "id", "status", "instance_type", "ip_address", "placement", "launch_time"},
			Actions: []widget.Action{
				{
					Name:    "remove",
					Title:   "Remove from view",
					URL:     "/instances/terminated/_id_/remove",
					Field:   "instance_id",
					Success: "Successfully removed terminated instance",
				},
			},
		},
		{
			Name:     "volumes",
			Title:    "Volumes",
			Path:     "/volumes",
			Endpoint: "/volumes/json",
			Sort:     "-create_time",
			SortKeys: []SortKey{
				{Key: "create_time", Name: "Creation time: Oldest to Newest"},
				{Key: "-create_time", Name: "Creation time: Newest to Oldest"},
				{Key: "name", Name: "Name: A to Z"},
				{Key: "-name", Name: "Name: Z to A"},
				{Key: "status", Name: "Status"},
				{Key: "zone", Name: "Availability zone"},
			},
			FilterKeys: []string{"attach_status", "create_time", "id", "instance", "name", "instance_name", "size", "snapshot_id", "status", "tags", "zone"},
			Columns:    []string{"name", "id", "status", "size", "zone", "instance_name", "create_time"},
		},
		{
			Name:     "snapshots",
			Title:    "Snapshots",
			Path:     "/snapshots",
			Endpoint: "/snapshots/json",
			Sort:     "-start_time",
			SortKeys: []SortKey{
				{Key: "-start_time", Name: "Start time: Newest to Oldest"},
				{Key: "start_time", Name: "Start time: Oldest to Newest"},
				{Key: "name", Name: "Name: A to Z"},
				{Key: "status", Name: "Status"},
			},
			FilterKeys: []string{"id", "name", "description", "volume_id", "status", "tags"},
			Columns:    []string{"name", "id", "status", "progress", "volume_size", "start_time"},
			EnrichURL:  "/snapshots/_id_/size/json",
		},
		{
			Name:           "buckets",
			Title:          "Buckets",
			Path:           "/buckets",
			Endpoint:       "/buckets/json",
			Sort:           "bucket_name",
			SortKeys:       []SortKey{{Key: "bucket_name", Name: "Name: A to Z"}, {Key: "-bucket_name", Name: "Name: Z to A"}, {Key: "-creation_date", Name: "Creation time: Newest to Oldest"}},
			FilterKeys:     []string{"bucket_name", "owner"},
			Columns:        []string{"bucket_name", "owner", "creation_date"},
			StorageService: true,
			EnrichURL:      "/buckets/_name_/objectscount.json",
			EnrichColumns:  []string{"object_count", "version_count", "versioning_status"},
		},
		{
			Name:     "securitygroups",
			Title:    "Security groups",
			Path:     "/securitygroups",
			Endpoint: "/securitygroups/json",
			Sort:     "name",
			SortKeys: []SortKey{
				{Key: "name", Name: "Name: A to Z"},
				{Key: "-name", Name: "Name: Z to A"},
				{Key: "vpc_name", Name: "VPC network"},
			},
			FilterKeys: []string{"id", "name", "description", "vpc_id", "vpc_name", "tags"},
			Columns:    []string{"name", "id", "description", "vpc_name"},
		},
		{
			Name:     "scalinggroups",
			Title:    "Scaling groups",
			Path:     "/scalinggroups",
			Endpoint: "/scalinggroups/json",
			Sort:     "name",
			SortKeys: []SortKey{
				{Key: "name", Name: "Name: A to Z"},
				{Key: "-name", Name: "Name: Z to A"},
				{Key: "-status", Name: "Health status"},
				{Key: "-current_instances_count", Name: "Current instances"},
				{Key: "launch_config", Name: "Launch configuration"},
				{Key: "availability_zones", Name: "Availability zones"},
			},
			FilterKeys: []string{"availability_zones", "launch_config", "name", "placement_group", "vpc_zone_identifier"},
			Columns:    []string{"name", "status", "launch_config", "current_instances_count", "min_size", "max_size", "availability_zones"},
		},
		{
			Name:     "users",
			Title:    "Users",
			Path:     "/users",
			Endpoint: "/users/json",
			Sort:     "user_name",
			SortKeys: []SortKey{
				{Key: "user_name", Name: "Name: A to Z"},
				{Key: "-user_name", Name: "Name: Z to A"},
				{Key: "-create_date", Name: "Creation time: Newest to Oldest"},
			},
			FilterKeys: []string{"user_name", "user_id", "path", "groups"},
			Columns:    []string{"user_name", "path", "num_groups", "create_date"},
		},
	}
}
