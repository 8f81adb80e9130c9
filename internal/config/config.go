package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

var configLogger zerolog.Logger

func SetLogger(l zerolog.Logger) {
	configLogger = l
}

// Config represents the complete configuration structure
type Config struct {
	Repo    RepoConfig    `yaml:"repo"`
	Store   StoreConfig   `yaml:"store"`
	Editor  EditorConfig  `yaml:"editor"`
	Logging LoggingConfig `yaml:"logging"`
}

// RepoConfig names the remote repository the editor writes to. The drafts/
// posts container names are part of the wire contract and not configurable.
type RepoConfig struct {
	Owner string `yaml:"owner" default:"spiffler33"`
	Name  string `yaml:"name" default:"spiffler-blog"`
}

// StoreConfig selects a backend and its connection parameters. The token for
// the github backend comes from the environment, not from this file.
type StoreConfig struct {
	Backend string       `yaml:"backend" default:"github"`
	S3      S3Config     `yaml:"s3"`
	SQLite  SQLiteConfig `yaml:"sqlite"`
}

type S3Config struct {
	Endpoint string `yaml:"endpoint" default:""`
	Bucket   string `yaml:"bucket" default:""`
}

type SQLiteConfig struct {
	Path string `yaml:"path" default:"./quill.db"`
}

type EditorConfig struct {
	// AutosaveDelayMs is the autosave quiet period: every edit restarts the
	// countdown, and the draft is persisted once it expires.
	AutosaveDelayMs int `yaml:"autosave_delay_ms" default:"1500"`
}

type LoggingConfig struct {
	Level string `yaml:"level" default:"info"`
	File  string `yaml:"file" default:"quill.log"`
}

var AppConfig *Config

func LoadConfig(path string) error {
	config := &Config{}

	// Apply default values first
	applyDefaults(config)

	// Try to read and parse the config file
	data, err := os.ReadFile(path)
	if err != nil {
		// If file doesn't exist, just use defaults
		configLogger.Info().Str("path", path).Msg("Config file not found, using defaults")
		AppConfig = config
		return nil
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	AppConfig = config
	return nil
}

func ApplyDefaults(config interface{}) {
	applyDefaults(config)
}

func applyDefaults(config interface{}) {
	v := reflect.ValueOf(config)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}

	if v.Kind() != reflect.Struct {
		return
	}

	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		fieldType := t.Field(i)

		if !field.IsValid() || !field.CanSet() {
			continue
		}

		// Recursively apply defaults to nested structs
		if field.Kind() == reflect.Struct {
			applyDefaults(field.Addr().Interface())
			continue
		}

		defaultValue := fieldType.Tag.Get("default")
		if defaultValue == "" {
			continue
		}

		switch field.Kind() {
		case reflect.String:
			field.SetString(defaultValue)
		case reflect.Bool:
			if val, err := strconv.ParseBool(defaultValue); err == nil {
				field.SetBool(val)
			}
		case reflect.Int:
			if val, err := strconv.ParseInt(defaultValue, 10, 64); err == nil {
				field.SetInt(val)
			}
		case reflect.Float64:
			if val, err := strconv.ParseFloat(defaultValue, 64); err == nil {
				field.SetFloat(val)
			}
		case reflect.Slice:
			if field.Len() == 0 && field.Type().Elem().Kind() == reflect.String {
				parts := strings.Split(defaultValue, ",")
				slice := reflect.MakeSlice(field.Type(), len(parts), len(parts))
				for j, part := range parts {
					slice.Index(j).SetString(strings.TrimSpace(part))
				}
				field.Set(slice)
			}
		default:
			configLogger.Warn().
				Str("field_name", fieldType.Name).
				Str("field_type", field.Kind().String()).
				Msg("Unsupported field type for default value")
		}
	}
}
