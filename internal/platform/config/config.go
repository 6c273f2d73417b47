package config

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"
)

const (
	defaultEnvFile       = ".env"
	defaultPort          = "8080"
	defaultReadTimeout   = 15 * time.Second
	defaultWriteTimeout  = 30 * time.Second
	defaultIdleTimeout   = 120 * time.Second
	defaultStorePath     = "storefront.db"
	defaultHomePath      = "/"
	defaultRedirectDelay = 4 * time.Second
	defaultToastDuration = 3 * time.Second
)

// Config captures all runtime configuration organised by concern.
type Config struct {
	Server   ServerConfig
	Store    StoreConfig
	Checkout CheckoutConfig
	Toast    ToastConfig
}

// ServerConfig configures HTTP server parameters.
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// StoreConfig locates the persistent key-value store. An empty path selects
// the in-memory store.
type StoreConfig struct {
	Path     string
	InMemory bool
}

// CheckoutConfig controls order completion behaviour.
type CheckoutConfig struct {
	HomePath      string
	RedirectDelay time.Duration
}

// ToastConfig controls toast notification behaviour.
type ToastConfig struct {
	Duration time.Duration
}

// ValidationError is returned when configuration fields are missing or invalid.
type ValidationError struct {
	fields []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation failed: missing or invalid fields [%s]", strings.Join(e.fields, ", "))
}

// Fields returns a copy of the missing/invalid field list.
func (e *ValidationError) Fields() []string {
	out := make([]string, len(e.fields))
	copy(out, e.fields)
	return out
}

// Option customises Load behaviour.
type Option func(*loaderOptions)

type loaderOptions struct {
	envFile      string
	envMap       map[string]string
	useSystemEnv bool
}

// WithEnvFile overrides the .env file path used for local overrides.
func WithEnvFile(path string) Option {
	return func(o *loaderOptions) {
		o.envFile = path
	}
}

// WithEnvMap injects an explicit key/value map taking precedence over system
// environment variables. Intended for tests.
func WithEnvMap(values map[string]string) Option {
	return func(o *loaderOptions) {
		o.envMap = values
	}
}

// WithoutSystemEnv disables system environment lookups so tests are hermetic.
func WithoutSystemEnv() Option {
	return func(o *loaderOptions) {
		o.useSystemEnv = false
	}
}

// Load resolves configuration with precedence dotenv < OS env < explicit map,
// applying defaults and validating the result.
func Load(opts ...Option) (Config, error) {
	options := loaderOptions{
		envFile:      defaultEnvFile,
		useSystemEnv: true,
	}
	for _, opt := range opts {
		opt(&options)
	}

	values, err := loadDotEnv(options.envFile)
	if err != nil {
		return Config{}, err
	}
	if options.useSystemEnv {
		for _, entry := range os.Environ() {
			parts := strings.SplitN(entry, "=", 2)
			if len(parts) != 2 || strings.TrimSpace(parts[0]) == "" {
				continue
			}
			values[strings.TrimSpace(parts[0])] = parts[1]
		}
	}
	for key, value := range options.envMap {
		values[key] = value
	}

	lookup := func(key string) string {
		return strings.TrimSpace(values[key])
	}

	var invalid []string

	cfg := Config{
		Server: ServerConfig{
			Port:         defaultString(lookup("STOREFRONT_SERVER_PORT"), defaultPort),
			ReadTimeout:  parseDuration(lookup("STOREFRONT_SERVER_READ_TIMEOUT"), defaultReadTimeout, "Server.ReadTimeout", &invalid),
			WriteTimeout: parseDuration(lookup("STOREFRONT_SERVER_WRITE_TIMEOUT"), defaultWriteTimeout, "Server.WriteTimeout", &invalid),
			IdleTimeout:  parseDuration(lookup("STOREFRONT_SERVER_IDLE_TIMEOUT"), defaultIdleTimeout, "Server.IdleTimeout", &invalid),
		},
		Store: StoreConfig{
			Path:     defaultString(lookup("STOREFRONT_STORE_PATH"), defaultStorePath),
			InMemory: parseBool(lookup("STOREFRONT_STORE_IN_MEMORY")),
		},
		Checkout: CheckoutConfig{
			HomePath:      defaultString(lookup("STOREFRONT_CHECKOUT_HOME_PATH"), defaultHomePath),
			RedirectDelay: parseDuration(lookup("STOREFRONT_CHECKOUT_REDIRECT_DELAY"), defaultRedirectDelay, "Checkout.RedirectDelay", &invalid),
		},
		Toast: ToastConfig{
			Duration: parseDuration(lookup("STOREFRONT_TOAST_DURATION"), defaultToastDuration, "Toast.Duration", &invalid),
		},
	}

	if cfg.Checkout.RedirectDelay <= 0 {
		invalid = append(invalid, "Checkout.RedirectDelay")
	}
	if cfg.Toast.Duration <= 0 {
		invalid = append(invalid, "Toast.Duration")
	}

	if len(invalid) > 0 {
		sort.Strings(invalid)
		return Config{}, &ValidationError{fields: uniqueFields(invalid)}
	}
	return cfg, nil
}

func defaultString(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func parseBool(value string) bool {
	switch strings.ToLower(value) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

func parseDuration(value string, fallback time.Duration, field string, invalid *[]string) time.Duration {
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		*invalid = append(*invalid, field)
		return fallback
	}
	return parsed
}

func uniqueFields(fields []string) []string {
	seen := make(map[string]struct{}, len(fields))
	out := fields[:0]
	for _, field := range fields {
		if _, ok := seen[field]; ok {
			continue
		}
		seen[field] = struct{}{}
		out = append(out, field)
	}
	return out
}

func loadDotEnv(path string) (map[string]string, error) {
	values := make(map[string]string)
	if strings.TrimSpace(path) == "" {
		return values, nil
	}

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return values, nil
		}
		return nil, fmt.Errorf("config: open env file %s: %w", path, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		value = strings.Trim(value, `"'`)
		if key == "" {
			continue
		}
		values[key] = value
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("config: read env file %s: %w", path, err)
	}
	return values, nil
}
