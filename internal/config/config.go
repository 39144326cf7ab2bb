package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gotrs-io/boardcheck/internal/browser"
	"github.com/gotrs-io/boardcheck/internal/pages"
	"github.com/spf13/viper"
)

// ErrInvalid is matched by every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Config represents the suite configuration
type Config struct {
	BaseURL   string          `mapstructure:"base_url"`
	Scenarios string          `mapstructure:"scenarios"`
	Filter    string          `mapstructure:"filter"`
	Browser   BrowserConfig   `mapstructure:"browser"`
	Timeouts  TimeoutsConfig  `mapstructure:"timeouts"`
	Artifacts ArtifactsConfig `mapstructure:"artifacts"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Schedule  ScheduleConfig  `mapstructure:"schedule"`
}

type BrowserConfig struct {
	Name         string        `mapstructure:"name"`
	Headless     bool          `mapstructure:"headless"`
	SlowMo       time.Duration `mapstructure:"slow_mo"`
	Width        int           `mapstructure:"width"`
	Height       int           `mapstructure:"height"`
	Preinstalled bool          `mapstructure:"preinstalled"`
}

type TimeoutsConfig struct {
	Assertion  time.Duration `mapstructure:"assertion"`
	Navigation time.Duration `mapstructure:"navigation"`
	Action     time.Duration `mapstructure:"action"`
}

type ArtifactsConfig struct {
	Dir         string `mapstructure:"dir"`
	Screenshots bool   `mapstructure:"screenshots"`
	Videos      bool   `mapstructure:"videos"`
	Trace       string `mapstructure:"trace"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type MetricsConfig struct {
	Pushgateway string `mapstructure:"pushgateway"`
	Job         string `mapstructure:"job"`
	Listen      string `mapstructure:"listen"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Key      string `mapstructure:"key"`
	Keep     int    `mapstructure:"keep"`
}

type ScheduleConfig struct {
	Cron string `mapstructure:"cron"`
}

// NewViper returns a viper instance with defaults and environment
// bindings. Callers may bind flags to it before calling Load.
func NewViper() *viper.Viper {
	v := viper.New()

	v.SetDefault("base_url", "")
	v.SetDefault("scenarios", "data/scenarios.json")
	v.SetDefault("filter", "")
	v.SetDefault("browser.name", "chromium")
	v.SetDefault("browser.headless", true)
	v.SetDefault("browser.slow_mo", 0)
	v.SetDefault("browser.width", 1280)
	v.SetDefault("browser.height", 720)
	v.SetDefault("browser.preinstalled", false)
	v.SetDefault("timeouts.assertion", pages.DefaultAssertTimeout)
	v.SetDefault("timeouts.navigation", pages.DefaultNavigationTimeout)
	v.SetDefault("timeouts.action", 30*time.Second)
	v.SetDefault("artifacts.dir", "test-results")
	v.SetDefault("artifacts.screenshots", true)
	v.SetDefault("artifacts.videos", false)
	v.SetDefault("artifacts.trace", string(browser.TraceOff))
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("metrics.pushgateway", "")
	v.SetDefault("metrics.job", "boardcheck")
	v.SetDefault("metrics.listen", ":2112")
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.key", "boardcheck")
	v.SetDefault("redis.keep", 50)
	v.SetDefault("schedule.cron", "0 */15 * * * *")

	v.SetEnvPrefix("BOARDCHECK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Unprefixed names kept for existing CI setups.
	_ = v.BindEnv("base_url", "BOARDCHECK_BASE_URL", "BASE_URL")
	_ = v.BindEnv("browser.headless", "BOARDCHECK_BROWSER_HEADLESS", "HEADLESS")
	_ = v.BindEnv("browser.preinstalled", "BOARDCHECK_BROWSER_PREINSTALLED", "PLAYWRIGHT_PREINSTALLED")

	return v
}

// Load reads configFile (or boardcheck.yaml from . or ./config when empty),
// the .env file and the environment into a validated Config.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	cfg, err := Read(v, configFile)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Read is Load without validation, for commands that only need part of
// the configuration.
func Read(v *viper.Viper, configFile string) (*Config, error) {
	loadOnce.Do(loadDotEnv)

	v.SetConfigType("yaml")
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("boardcheck")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if os.Getenv("BOARDCHECK_BROWSER_SLOW_MO") == "" {
		if d, ok := legacySlowMo(os.Getenv("SLOW_MO")); ok {
			cfg.Browser.SlowMo = d
		}
	}
	return cfg, nil
}

// DefaultLegacySlowMo is applied when SLOW_MO is set to anything other
// than a number of milliseconds, e.g. SLOW_MO=true.
const DefaultLegacySlowMo = 100 * time.Millisecond

// legacySlowMo maps the unprefixed SLOW_MO variable: a bare integer is
// milliseconds, any other non-empty value switches on the default delay.
func legacySlowMo(val string) (time.Duration, bool) {
	val = strings.TrimSpace(val)
	if val == "" {
		return 0, false
	}
	if ms, err := strconv.Atoi(val); err == nil && ms >= 0 {
		return time.Duration(ms) * time.Millisecond, true
	}
	return DefaultLegacySlowMo, true
}

// Validate reports every invalid field at once.
func (c *Config) Validate() error {
	var problems []string

	if c.BaseURL == "" {
		problems = append(problems, "base_url is required")
	} else if u, err := url.Parse(c.BaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		problems = append(problems, fmt.Sprintf("base_url %q is not an http(s) URL", c.BaseURL))
	}
	if c.Scenarios == "" {
		problems = append(problems, "scenarios is required")
	}
	switch c.Browser.Name {
	case "chromium", "firefox", "webkit":
	default:
		problems = append(problems, fmt.Sprintf("browser.name %q must be chromium, firefox or webkit", c.Browser.Name))
	}
	switch browser.TraceMode(c.Artifacts.Trace) {
	case browser.TraceOff, browser.TraceOn, browser.TraceRetainOnFailure:
	default:
		problems = append(problems, fmt.Sprintf("artifacts.trace %q must be off, on or retain-on-failure", c.Artifacts.Trace))
	}
	for name, d := range map[string]time.Duration{
		"timeouts.assertion":  c.Timeouts.Assertion,
		"timeouts.navigation": c.Timeouts.Navigation,
		"timeouts.action":     c.Timeouts.Action,
	} {
		if d <= 0 {
			problems = append(problems, fmt.Sprintf("%s must be positive", name))
		}
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		problems = append(problems, fmt.Sprintf("logging.format %q must be console or json", c.Logging.Format))
	}

	if len(problems) == 0 {
		return nil
	}
	sort.Strings(problems)
	return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(problems, "; "))
}

// BrowserOptions maps the configuration onto launcher options.
func (c *Config) BrowserOptions() browser.Options {
	return browser.Options{
		Browser:       c.Browser.Name,
		Headless:      c.Browser.Headless,
		SlowMo:        c.Browser.SlowMo,
		BaseURL:       c.BaseURL,
		ActionTimeout: c.Timeouts.Action,
		Width:         c.Browser.Width,
		Height:        c.Browser.Height,
		ArtifactsDir:  c.Artifacts.Dir,
		Screenshots:   c.Artifacts.Screenshots,
		Videos:        c.Artifacts.Videos,
		Trace:         browser.TraceMode(c.Artifacts.Trace),
		Preinstalled:  c.Browser.Preinstalled,
	}
}

// PageOptions maps the configured timeouts onto page object options.
func (c *Config) PageOptions() []pages.Option {
	return []pages.Option{
		pages.WithAssertTimeout(c.Timeouts.Assertion),
		pages.WithNavigationTimeout(c.Timeouts.Navigation),
	}
}

// Holder keeps the current configuration and swaps it when the config
// file changes.
type Holder struct {
	mu  sync.RWMutex
	cfg *Config
}

// NewHolder wraps cfg.
func NewHolder(cfg *Config) *Holder {
	return &Holder{cfg: cfg}
}

// Get returns the current configuration (thread-safe)
func (h *Holder) Get() *Config {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.cfg
}

// Watch reloads the configuration whenever v's config file changes. Invalid
// edits are reported through onError and the previous config is kept.
func (h *Holder) Watch(v *viper.Viper, onReload func(*Config), onError func(error)) {
	v.OnConfigChange(func(e fsnotify.Event) {
		newCfg := &Config{}
		if err := v.Unmarshal(newCfg); err != nil {
			onError(fmt.Errorf("failed to reload %s: %w", e.Name, err))
			return
		}
		if err := newCfg.Validate(); err != nil {
			onError(fmt.Errorf("ignoring %s: %w", e.Name, err))
			return
		}

		h.mu.Lock()
		h.cfg = newCfg
		h.mu.Unlock()
		onReload(newCfg)
	})
	v.WatchConfig()
}
