package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"recipescale"
)

const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"

	DefaultPath = "recipescale.yaml"
)

type Config struct {
	Backend        string `yaml:"backend" validate:"oneof=file sqlite memory"`
	DataDir        string `yaml:"data_dir" validate:"required_unless=Backend memory"`
	SQLitePath     string `yaml:"sqlite_path"`
	IngredientsKey string `yaml:"ingredients_key" validate:"required,excludesall=/\\"`
	RecordsKey     string `yaml:"records_key" validate:"required,excludesall=/\\,nefield=IngredientsKey"`

	ReferenceBatchKg     float64  `yaml:"reference_batch_kg" validate:"gt=0"`
	VesselCount          int      `yaml:"vessel_count" validate:"gte=1"`
	ContainerWeightKg    float64  `yaml:"container_weight_kg" validate:"gt=0"`
	ContainerIngredients []string `yaml:"container_ingredients" validate:"dive,required"`

	Labels     recipescale.Labels `yaml:"labels"`
	Locale     string             `yaml:"locale" validate:"required"`
	DateLayout string             `yaml:"date_layout" validate:"required"`

	LogLevel  string `yaml:"log_level" validate:"oneof=debug info warn error"`
	LogFormat string `yaml:"log_format" validate:"oneof=json console"`
}

// Load reads the YAML file at path (RECIPESCALE_CONFIG, then DefaultPath,
// when empty), applies RECIPESCALE_* overrides and defaults, then validates.
// A missing file is not an error.
func Load(path string) (Config, error) {
	var cfg Config

	if path == "" {
		path = DefaultPath
		if envPath := os.Getenv("RECIPESCALE_CONFIG"); envPath != "" {
			path = envPath
		}
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return Config{}, fmt.Errorf("read %s: %w", path, err)
	}

	envOverride(&cfg.Backend, "RECIPESCALE_BACKEND")
	envOverride(&cfg.DataDir, "RECIPESCALE_DATA_DIR")
	envOverride(&cfg.SQLitePath, "RECIPESCALE_SQLITE_PATH")
	envOverride(&cfg.Locale, "RECIPESCALE_LOCALE")
	envOverride(&cfg.DateLayout, "RECIPESCALE_DATE_LAYOUT")
	envOverride(&cfg.LogLevel, "RECIPESCALE_LOG_LEVEL")
	envOverride(&cfg.LogFormat, "RECIPESCALE_LOG_FORMAT")
	if err := envOverrideFloat(&cfg.ReferenceBatchKg, "RECIPESCALE_REFERENCE_BATCH_KG"); err != nil {
		return Config{}, err
	}
	if err := envOverrideInt(&cfg.VesselCount, "RECIPESCALE_VESSEL_COUNT"); err != nil {
		return Config{}, err
	}
	if err := envOverrideFloat(&cfg.ContainerWeightKg, "RECIPESCALE_CONTAINER_WEIGHT_KG"); err != nil {
		return Config{}, err
	}
	if names := os.Getenv("RECIPESCALE_CONTAINER_INGREDIENTS"); names != "" {
		cfg.ContainerIngredients = nil
		for _, name := range strings.Split(names, ",") {
			name = strings.TrimSpace(name)
			if name != "" {
				cfg.ContainerIngredients = append(cfg.ContainerIngredients, name)
			}
		}
	}

	applyDefaults(&cfg)

	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Backend == "" {
		cfg.Backend = BackendFile
	}
	if cfg.DataDir == "" && cfg.Backend != BackendMemory {
		cfg.DataDir = defaultDataDir()
	}
	if cfg.SQLitePath == "" && cfg.Backend == BackendSQLite {
		cfg.SQLitePath = filepath.Join(cfg.DataDir, "recipescale.db")
	}
	if cfg.IngredientsKey == "" {
		cfg.IngredientsKey = recipescale.DefaultIngredientsKey
	}
	if cfg.RecordsKey == "" {
		cfg.RecordsKey = recipescale.DefaultRecordsKey
	}
	if cfg.ReferenceBatchKg == 0 {
		cfg.ReferenceBatchKg = recipescale.DefaultBatchKg
	}
	if cfg.VesselCount == 0 {
		cfg.VesselCount = recipescale.DefaultVesselCount
	}
	if cfg.ContainerWeightKg == 0 {
		cfg.ContainerWeightKg = recipescale.ContainerWeightKg
	}
	if cfg.ContainerIngredients == nil {
		cfg.ContainerIngredients = []string{recipescale.Yogurt}
	}
	if cfg.Locale == "" {
		cfg.Locale = recipescale.DefaultLocale
	}
	if cfg.DateLayout == "" {
		cfg.DateLayout = recipescale.DefaultDateLayout
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "warn"
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "console"
	}
}

func defaultDataDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "recipescale")
	}
	return "./recipescale-data"
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func Validate(cfg Config) error {
	if err := validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("invalid config %s: failed %q check (value %v)", fe.Namespace(), fe.Tag(), fe.Value())
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	if _, err := language.Parse(cfg.Locale); err != nil {
		return fmt.Errorf("invalid config locale %q: %w", cfg.Locale, err)
	}
	return nil
}

// Scaler builds the scaling engine described by cfg.
func (c Config) Scaler() recipescale.Scaler {
	conv := recipescale.NewUnitConverter()
	conv.AddRule(recipescale.KindContainer, c.ContainerWeightKg)
	return recipescale.Scaler{
		ReferenceBatchSize: c.ReferenceBatchKg,
		VesselCount:        c.VesselCount,
		Converter:          conv,
	}
}

// DefaultIngredients returns the built-in list with the configured container
// ingredients tagged as containers.
func (c Config) DefaultIngredients() recipescale.Ingredients {
	ings := recipescale.DefaultIngredients()
	kinds := make(map[string]recipescale.Kind)
	for _, it := range ings.All() {
		kinds[it.Name] = recipescale.KindMass
	}
	for _, name := range c.ContainerIngredients {
		kinds[name] = recipescale.KindContainer
	}
	ings.ApplyKinds(kinds)
	return ings
}

func envOverride(field *string, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		*field = val
	}
}

func envOverrideInt(field *int, envKey string) error {
	if val := os.Getenv(envKey); val != "" {
		parsed, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("invalid %s '%s': %w", envKey, val, err)
		}
		*field = parsed
	}
	return nil
}

func envOverrideFloat(field *float64, envKey string) error {
	if val := os.Getenv(envKey); val != "" {
		parsed, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return fmt.Errorf("invalid %s '%s': %w", envKey, val, err)
		}
		*field = parsed
	}
	return nil
}
