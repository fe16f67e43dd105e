package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/hullhq/bosun/pkg/security"
)

const (
	// DefaultPath is where the declared configuration lives.
	DefaultPath = "/etc/bosun/bosun.conf"

	// DefaultDataDir is the base directory for stack data and the journal.
	DefaultDataDir = "/var/lib/bosun"
)

// Config is the declared configuration for one stack: resource names,
// network identity, storage paths, and credentials. It is passed explicitly
// into the run; nothing reads it from ambient process state.
type Config struct {
	StackName string

	DataDir  string
	StackDir string // where the generated stack + app config files live

	WebImage string
	DBImage  string

	WebPort int // published application port
	DBPort  int // published database port (localhost use only)

	DBName     string
	DBUser     string
	DBPassword string

	// AdminPassword is the application master password, generated once.
	AdminPassword string
}

// baseline returns the non-secret defaults. Credentials stay empty: they are
// generated exactly once, when the configuration file is first written.
func baseline() *Config {
	return &Config{
		StackName: "odoo",
		DataDir:   DefaultDataDir,
		StackDir:  filepath.Join(DefaultDataDir, "stack"),
		WebImage:  "docker.io/library/odoo:17.0",
		DBImage:   "docker.io/library/postgres:16",
		WebPort:   8069,
		DBPort:    5432,
		DBName:    "odoo",
		DBUser:    "odoo",
	}
}

// Defaults returns a Config with generated credentials and default names.
// Called only when no configuration file exists yet.
func Defaults() (*Config, error) {
	dbPass, err := security.GenerateCredential(security.DefaultCredentialBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to generate database password: %w", err)
	}
	adminPass, err := security.GenerateCredential(security.DefaultCredentialBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to generate admin password: %w", err)
	}

	cfg := baseline()
	cfg.DBPassword = dbPass
	cfg.AdminPassword = adminPass
	return cfg, nil
}

// Load reads the configuration file at path, generating it with default
// values and fresh credentials if it does not exist. The generated file is
// written with owner-only permissions because it contains credentials.
// An existing file is loaded as-is and never regenerated.
//
// The second return value reports whether the file was created by this call.
func Load(path string) (*Config, bool, error) {
	data, err := os.ReadFile(path)
	if err == nil {
		cfg, perr := parse(data)
		if perr != nil {
			return nil, false, fmt.Errorf("failed to parse config %s: %w", path, perr)
		}
		return cfg, false, nil
	}
	if !os.IsNotExist(err) {
		return nil, false, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	cfg, err := Defaults()
	if err != nil {
		return nil, false, err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, false, fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, render(cfg), 0600); err != nil {
		return nil, false, fmt.Errorf("failed to write config %s: %w", path, err)
	}

	return cfg, true, nil
}

// parse reads the key=value format. Unknown keys are ignored so older
// binaries can read newer files. Credentials must come from the file:
// seeding fresh ones here would silently hand out a different password on
// every load.
func parse(data []byte) (*Config, error) {
	cfg := baseline()

	for i, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return nil, fmt.Errorf("line %d: expected key=value, got %q", i+1, line)
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		switch key {
		case "STACK_NAME":
			cfg.StackName = value
		case "DATA_DIR":
			cfg.DataDir = value
		case "STACK_DIR":
			cfg.StackDir = value
		case "WEB_IMAGE":
			cfg.WebImage = value
		case "DB_IMAGE":
			cfg.DBImage = value
		case "WEB_PORT":
			port, perr := strconv.Atoi(value)
			if perr != nil {
				return nil, fmt.Errorf("line %d: invalid WEB_PORT %q", i+1, value)
			}
			cfg.WebPort = port
		case "DB_PORT":
			port, perr := strconv.Atoi(value)
			if perr != nil {
				return nil, fmt.Errorf("line %d: invalid DB_PORT %q", i+1, value)
			}
			cfg.DBPort = port
		case "DB_NAME":
			cfg.DBName = value
		case "DB_USER":
			cfg.DBUser = value
		case "DB_PASSWORD":
			cfg.DBPassword = value
		case "ADMIN_PASSWORD":
			cfg.AdminPassword = value
		}
	}

	return cfg, cfg.validate()
}

func (c *Config) validate() error {
	if c.StackName == "" {
		return fmt.Errorf("STACK_NAME cannot be empty")
	}
	if c.DBPassword == "" {
		return fmt.Errorf("DB_PASSWORD cannot be empty")
	}
	if c.AdminPassword == "" {
		return fmt.Errorf("ADMIN_PASSWORD cannot be empty")
	}
	if c.WebPort <= 0 || c.WebPort > 65535 {
		return fmt.Errorf("WEB_PORT out of range: %d", c.WebPort)
	}
	if c.DBPort <= 0 || c.DBPort > 65535 {
		return fmt.Errorf("DB_PORT out of range: %d", c.DBPort)
	}
	return nil
}

// render produces the key=value file content with keys in stable order.
func render(cfg *Config) []byte {
	entries := map[string]string{
		"STACK_NAME":     cfg.StackName,
		"DATA_DIR":       cfg.DataDir,
		"STACK_DIR":      cfg.StackDir,
		"WEB_IMAGE":      cfg.WebImage,
		"DB_IMAGE":       cfg.DBImage,
		"WEB_PORT":       strconv.Itoa(cfg.WebPort),
		"DB_PORT":        strconv.Itoa(cfg.DBPort),
		"DB_NAME":        cfg.DBName,
		"DB_USER":        cfg.DBUser,
		"DB_PASSWORD":    cfg.DBPassword,
		"ADMIN_PASSWORD": cfg.AdminPassword,
	}

	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString("# bosun stack configuration. Generated on first run; edits are preserved.\n")
	for _, k := range keys {
		fmt.Fprintf(&b, "%s=%s\n", k, entries[k])
	}
	return []byte(b.String())
}

// WebContainerName returns the exact container name for the web service.
func (c *Config) WebContainerName() string {
	return c.StackName + "-web"
}

// DBContainerName returns the exact container name for the database.
func (c *Config) DBContainerName() string {
	return c.StackName + "-db"
}
