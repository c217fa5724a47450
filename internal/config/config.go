// Package config loads the layered gcop configuration.
//
// Layers, lowest precedence first:
//   - built-in defaults (types.DefaultConfig)
//   - user file: $GCOP_CONFIG_HOME/config.yaml or <os config dir>/gcop/config.yaml
//   - project file: <project root>/.gcop/config.yaml
//   - environment: GCOP_MODEL_API_KEY, GCOP_INCLUDE_GIT_HISTORY, ...
//
// The result is a plain types.Config value; callers receive it once and pass
// it along, nothing here is global.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/edhuardotierrez/gcop/internal/types"
)

type kind int

const (
	kindString kind = iota
	kindBool
	kindInt
)

// schema lists every settable key. Anything else in a layer file is ignored
// with a warning, and rejected by Set.
var schema = map[string]kind{
	"model.model_name":        kindString,
	"model.api_key":           kindString,
	"model.api_base":          kindString,
	"commit_template":         kindString,
	"include_git_history":     kindBool,
	"history_learning_limit":  kindInt,
	"enable_data_improvement": kindBool,
}

// Keys returns the settable keys in dotted form, sorted.
func Keys() []string {
	keys := make([]string, 0, len(schema))
	for k := range schema {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// IsKnownKey reports whether key is part of the schema.
func IsKnownKey(key string) bool {
	_, ok := schema[lower(key)]
	return ok
}

func lower(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Manager reads and writes the config layers found at Paths.
type Manager struct {
	Paths Paths
	Log   logrus.FieldLogger
	// DisableEnv skips the GCOP_* environment layer.
	DisableEnv bool
}

// NewManager returns a Manager for paths.
func NewManager(paths Paths, log logrus.FieldLogger) *Manager {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &Manager{Paths: paths, Log: log}
}

func setDefaults(v *viper.Viper) {
	d := types.DefaultConfig()
	v.SetDefault("model.model_name", d.Model.ModelName)
	v.SetDefault("model.api_key", d.Model.APIKey)
	v.SetDefault("model.api_base", d.Model.APIBase)
	v.SetDefault("commit_template", d.CommitTemplate)
	v.SetDefault("include_git_history", d.IncludeGitHistory)
	v.SetDefault("history_learning_limit", d.HistoryLearningLimit)
	v.SetDefault("enable_data_improvement", d.EnableDataImprovement)
}

// Load merges defaults, the user file, the project file and the environment
// into a validated Config. Missing files are skipped.
func (m *Manager) Load() (types.Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	setDefaults(v)

	for _, file := range []string{m.Paths.UserFile(), m.Paths.ProjectFile()} {
		if file == "" {
			continue
		}
		data, err := os.ReadFile(file)
		if errors.Is(err, os.ErrNotExist) {
			m.Log.WithField("file", file).Debug("config layer not found")
			continue
		}
		if err != nil {
			return types.Config{}, &types.ConfigError{Reason: fmt.Sprintf("could not read %s", file), Err: err}
		}
		if err := m.warnUnknownKeys(file, data); err != nil {
			return types.Config{}, err
		}
		if err := v.MergeConfig(bytes.NewReader(data)); err != nil {
			return types.Config{}, &types.ConfigError{Reason: fmt.Sprintf("could not parse %s", file), Err: err}
		}
		m.Log.WithField("file", file).Debug("config layer merged")
	}

	if !m.DisableEnv {
		v.SetEnvPrefix("GCOP")
		v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		v.AutomaticEnv()
	}

	var cfg types.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return types.Config{}, &types.ConfigError{Reason: "config values do not match the schema", Err: err}
	}
	if cfg.HistoryLearningLimit < 0 {
		return types.Config{}, &types.ConfigError{Key: "history_learning_limit", Reason: "must not be negative"}
	}
	return cfg, nil
}

func (m *Manager) warnUnknownKeys(file string, data []byte) error {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return &types.ConfigError{Reason: fmt.Sprintf("could not parse %s", file), Err: err}
	}
	for _, key := range flatten("", raw) {
		if !IsKnownKey(key) {
			m.Log.WithFields(logrus.Fields{"file": file, "key": key}).Warn("ignoring unknown config key")
		}
	}
	return nil
}

// flatten returns the dotted leaf keys of a decoded YAML mapping.
func flatten(prefix string, raw map[string]any) []string {
	var keys []string
	for k, val := range raw {
		key := lower(k)
		if prefix != "" {
			key = prefix + "." + key
		}
		if nested, ok := val.(map[string]any); ok {
			keys = append(keys, flatten(key, nested)...)
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// ReadLayer returns the raw content of a layer file, nil when it does not exist.
func (m *Manager) ReadLayer(level Level) (map[string]any, error) {
	path, err := m.Paths.File(level)
	if err != nil {
		return nil, &types.ConfigError{Reason: err.Error()}
	}
	return readYAML(path)
}

func readYAML(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, &types.ConfigError{Reason: fmt.Sprintf("could not read %s", path), Err: err}
	}
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, &types.ConfigError{Reason: fmt.Sprintf("could not parse %s", path), Err: err}
	}
	return raw, nil
}

// ParseValue converts raw to the type the schema declares for key.
func ParseValue(key, raw string) (any, error) {
	k, ok := schema[lower(key)]
	if !ok {
		return nil, &types.ConfigError{Key: key, Reason: "unknown key, valid keys are " + strings.Join(Keys(), ", ")}
	}
	switch k {
	case kindBool:
		b, err := strconv.ParseBool(strings.TrimSpace(raw))
		if err != nil {
			return nil, &types.ConfigError{Key: key, Reason: fmt.Sprintf("%q is not a boolean", raw)}
		}
		return b, nil
	case kindInt:
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil || n < 0 {
			return nil, &types.ConfigError{Key: key, Reason: fmt.Sprintf("%q is not a non-negative integer", raw)}
		}
		return n, nil
	default:
		return raw, nil
	}
}

// Set validates key and value against the schema and persists them to the
// given layer, keeping every other key of that file.
func (m *Manager) Set(level Level, key, raw string) (string, error) {
	value, err := ParseValue(key, raw)
	if err != nil {
		return "", err
	}
	path, err := m.Paths.File(level)
	if err != nil {
		return "", &types.ConfigError{Reason: err.Error()}
	}

	existing, err := readYAML(path)
	if err != nil {
		return "", err
	}
	if existing == nil {
		existing = map[string]any{}
	}

	parts := strings.Split(lower(key), ".")
	current := existing
	for _, part := range parts[:len(parts)-1] {
		next, ok := current[part].(map[string]any)
		if !ok {
			next = map[string]any{}
			current[part] = next
		}
		current = next
	}
	current[parts[len(parts)-1]] = value

	if err := writeYAML(path, existing); err != nil {
		return "", err
	}
	m.Log.WithFields(logrus.Fields{"file": path, "key": key}).Info("config value updated")
	return path, nil
}

// SetModel writes the whole model section into the given layer.
func (m *Manager) SetModel(level Level, model types.ModelConfig) (string, error) {
	var path string
	for key, value := range map[string]string{
		"model.model_name": model.ModelName,
		"model.api_key":    model.APIKey,
		"model.api_base":   model.APIBase,
	} {
		p, err := m.Set(level, key, value)
		if err != nil {
			return "", err
		}
		path = p
	}
	return path, nil
}

// EnsureLayer creates the layer file with default values when missing.
func (m *Manager) EnsureLayer(level Level) (path string, created bool, err error) {
	path, err = m.Paths.File(level)
	if err != nil {
		return "", false, &types.ConfigError{Reason: err.Error()}
	}
	created, err = Scaffold(path)
	return path, created, err
}

// Scaffold writes the default configuration to path unless a file exists there.
func Scaffold(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	}
	if err := writeYAML(path, types.DefaultConfig()); err != nil {
		return false, err
	}
	return true, nil
}

func writeYAML(path string, v any) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return &types.ConfigError{Reason: "could not marshal config", Err: err}
	}
	if err := WriteFileAtomic(path, data, 0o600); err != nil {
		return &types.ConfigError{Reason: fmt.Sprintf("could not write %s", path), Err: err}
	}
	return nil
}

// WriteFileAtomic replaces path through a rename so concurrent readers never
// see a partial file; the last writer wins.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".gcop-*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), perm); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// MarshalYAML renders any config value the way it is stored on disk.
func MarshalYAML(v any) (string, error) {
	data, err := yaml.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
