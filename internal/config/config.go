package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// DefaultPath — конфиг, который читается, если путь не задан явно.
const DefaultPath = "sqw-sync.yml"

// Config — конфигурация sqw-sync.
// Формат YAML (.yml/.yaml) или TOML (.toml); ключи одинаковые.
type Config struct {
	Device DeviceConfig `yaml:"device" toml:"device"`
	Sync   SyncConfig   `yaml:"sync" toml:"sync"`
	Verify VerifyConfig `yaml:"verify" toml:"verify"`
	Log    LogConfig    `yaml:"log" toml:"log"`
}

// DeviceConfig — последовательный порт источника SQW. Пустой Port — режим только offset.
type DeviceConfig struct {
	Port        string `yaml:"port" toml:"port"`
	Baud        int    `yaml:"baud" toml:"baud" validate:"gt=0"`
	Driver      string `yaml:"driver" toml:"driver" validate:"oneof=bugst tarm"`
	ReadTimeout string `yaml:"read_timeout" toml:"read_timeout" validate:"duration"`
}

// SyncConfig — что делать с часами.
type SyncConfig struct {
	Init   bool    `yaml:"init" toml:"init"`
	Offset float64 `yaml:"offset" toml:"offset"`

	// DryRun — ставить виртуальные часы вместо системных (без root).
	DryRun bool `yaml:"dry_run" toml:"dry_run"`
}

// VerifyConfig — сверка с NTP после синхронизации (пусто — выключено).
type VerifyConfig struct {
	NTPServer string `yaml:"ntp_server" toml:"ntp_server" validate:"omitempty,hostname_port|hostname_rfc1123|ip"`
	Timeout   string `yaml:"timeout" toml:"timeout" validate:"duration"`
}

// LogConfig — журнал.
type LogConfig struct {
	File  string `yaml:"file" toml:"file"`
	Quiet bool   `yaml:"quiet" toml:"quiet"`
	Debug bool   `yaml:"debug" toml:"debug"`
}

// Default возвращает конфиг по умолчанию
func Default() *Config {
	return &Config{
		Device: DeviceConfig{
			Baud:        115200,
			Driver:      "bugst",
			ReadTimeout: "100ms",
		},
		Verify: VerifyConfig{
			Timeout: "5s",
		},
	}
}

// Load читает конфиг из файла на fs.
func Load(fsys afero.Fs, path string) (*Config, error) {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var c Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&c); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, &c); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}
	applyDefaults(&c)
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// LoadOrDefault читает path; если path пуст, пробует DefaultPath и при его
// отсутствии возвращает Default(). Явно заданный, но отсутствующий файл — ошибка.
func LoadOrDefault(fsys afero.Fs, path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}
	if _, err := fsys.Stat(path); errors.Is(err, fs.ErrNotExist) && !explicit {
		return Default(), nil
	}
	return Load(fsys, path)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("duration", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		if s == "" {
			return true
		}
		d, err := time.ParseDuration(s)
		return err == nil && d >= 0
	})
	return v
}

// Validate проверяет значения после applyDefaults.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// ReadTimeout — device.read_timeout как time.Duration.
func (c *Config) ReadTimeout() time.Duration {
	return parseDuration(c.Device.ReadTimeout, 100*time.Millisecond)
}

// VerifyTimeout — verify.timeout как time.Duration.
func (c *Config) VerifyTimeout() time.Duration {
	return parseDuration(c.Verify.Timeout, 5*time.Second)
}

func applyDefaults(c *Config) {
	d := Default()
	if c.Device.Baud == 0 {
		c.Device.Baud = d.Device.Baud
	}
	if c.Device.Driver == "" {
		c.Device.Driver = d.Device.Driver
	}
	if c.Device.ReadTimeout == "" {
		c.Device.ReadTimeout = d.Device.ReadTimeout
	}
	if c.Verify.Timeout == "" {
		c.Verify.Timeout = d.Verify.Timeout
	}
}

func parseDuration(s string, defaultVal time.Duration) time.Duration {
	if s == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return defaultVal
	}
	return d
}
