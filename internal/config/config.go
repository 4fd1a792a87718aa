// Package config loads the store's layered configuration: a project
// config.yaml discovered by walking up from the working directory,
// XDG and home-directory fallbacks, environment overrides, and a
// legacy TOML file read for repos that haven't migrated yet.
//
// Grounded on the teacher's internal/config package: same viper
// singleton, same walk-up-then-fall-back discovery shape, same
// override-detection bookkeeping (ConfigSource/ConfigOverride). The
// settings themselves are trimmed to what the store core actually
// reads (db path, actor identity, git toggle, lock timeout) — the
// teacher's routing/sync/hierarchy/devlog/multi-repo settings belong
// to its issue tracker, not this store, so they are dropped rather
// than carried forward unused.
package config

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/oaps-dev/oaps/internal/logging"
)

var v *viper.Viper

// log is the package-level logger config uses to report its own load
// decisions. It defaults to discarding until a caller wires a real
// one in via SetLogger (cmd/oapsctl's root.go does this in setup once
// it has resolved the store directory to log into).
var log = logging.NewDiscard()

// SetLogger installs the logger config reports its load decisions
// through. Safe to call before or after Initialize.
func SetLogger(l *logging.Logger) {
	if l != nil {
		log = l
	}
}

// legacyConfigName is the pre-YAML config file oaps reads directly
// with BurntSushi/toml before falling back to viper's yaml load,
// mirroring the teacher's own layered-discovery idiom but giving toml
// a concrete home instead of a second yaml path.
const legacyConfigName = ".oaps.toml"

// Initialize sets up the viper configuration singleton. Should be
// called once at application startup.
func Initialize() error {
	v = viper.New()
	v.SetConfigType("yaml")

	configFileSet := false

	// 1. Walk up from CWD to find project .oaps/config.yaml.
	cwd, err := os.Getwd()
	if err == nil {
		for dir := cwd; dir != filepath.Dir(dir); dir = filepath.Dir(dir) {
			configPath := filepath.Join(dir, ".oaps", "config.yaml")
			if _, err := os.Stat(configPath); err == nil {
				v.SetConfigFile(configPath)
				configFileSet = true
				break
			}
		}
	}

	// 2. XDG config directory ($XDG_CONFIG_HOME/oaps/config.yaml).
	if !configFileSet {
		if configDir, err := os.UserConfigDir(); err == nil {
			configPath := filepath.Join(configDir, "oaps", "config.yaml")
			if _, err := os.Stat(configPath); err == nil {
				v.SetConfigFile(configPath)
				configFileSet = true
			}
		}
	}

	// 3. Home directory (~/.oaps/config.yaml).
	if !configFileSet {
		if homeDir, err := os.UserHomeDir(); err == nil {
			configPath := filepath.Join(homeDir, ".oaps", "config.yaml")
			if _, err := os.Stat(configPath); err == nil {
				v.SetConfigFile(configPath)
				configFileSet = true
			}
		}
	}

	// Legacy .oaps.toml, read directly and merged in as defaults
	// before the yaml config (if any) and env vars take precedence
	// over it.
	if legacy, ok := findLegacyTOML(cwd); ok {
		if err := applyLegacyTOML(legacy); err != nil {
			return fmt.Errorf("error reading legacy config %s: %w", legacy, err)
		}
		log.Debugf("loaded legacy config from %s", legacy)
	}

	// Environment variable binding: OAPS_DB, OAPS_ACTOR, OAPS_NO_GIT, ...
	v.SetEnvPrefix("OAPS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault("db", "")
	v.SetDefault("actor", "")
	v.SetDefault("no-git", false)
	v.SetDefault("lock-timeout", "30s")
	v.SetDefault("session", "")

	if configFileSet {
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("error reading config file: %w", err)
		}
		log.Debugf("loaded config from %s", v.ConfigFileUsed())
	} else {
		log.Debugf("no config.yaml found; using defaults, legacy config, and environment variables")
	}

	return nil
}

// findLegacyTOML walks up from cwd looking for a .oaps.toml file.
func findLegacyTOML(cwd string) (string, bool) {
	if cwd == "" {
		return "", false
	}
	for dir := cwd; dir != filepath.Dir(dir); dir = filepath.Dir(dir) {
		path := filepath.Join(dir, legacyConfigName)
		if _, err := os.Stat(path); err == nil {
			return path, true
		}
	}
	return "", false
}

// applyLegacyTOML decodes path with BurntSushi/toml and merges its
// top-level keys into viper as defaults, so a genuine config.yaml or
// env var still takes precedence.
func applyLegacyTOML(path string) error {
	var raw map[string]interface{}
	if _, err := toml.DecodeFile(path, &raw); err != nil {
		return err
	}
	for key, val := range raw {
		v.SetDefault(key, val)
	}
	return nil
}

// WatchForChanges installs an fsnotify-backed watch (via
// viper.WatchConfig) so a long-lived process such as the hook runtime
// picks up author-identity and lock-timeout edits without restarting.
// onChange is invoked (if non-nil) after each reload; it receives the
// fsnotify event, whose Name is the path of the file that changed. A
// no-op if no config file was found
// during Initialize.
func WatchForChanges(onChange func(event fsnotify.Event)) {
	if v == nil || v.ConfigFileUsed() == "" {
		return
	}
	if onChange != nil {
		v.OnConfigChange(onChange)
	}
	v.WatchConfig()
}

// ConfigSource represents where a configuration value came from.
type ConfigSource string

const (
	SourceDefault    ConfigSource = "default"
	SourceConfigFile ConfigSource = "config_file"
	SourceEnvVar     ConfigSource = "env_var"
	SourceFlag       ConfigSource = "flag"
)

// ConfigOverride represents a detected configuration override.
type ConfigOverride struct {
	Key            string
	EffectiveValue interface{}
	OverriddenBy   ConfigSource
	OriginalSource ConfigSource
	OriginalValue  interface{}
}

// GetValueSource returns the source of a configuration value.
// Priority (highest to lowest): env var > config file > default.
// Flag overrides are handled separately by callers, since viper
// doesn't know about cobra flags.
func GetValueSource(key string) ConfigSource {
	if v == nil {
		return SourceDefault
	}

	envKey := "OAPS_" + strings.ToUpper(strings.ReplaceAll(strings.ReplaceAll(key, "-", "_"), ".", "_"))
	if os.Getenv(envKey) != "" {
		return SourceEnvVar
	}

	if v.InConfig(key) {
		return SourceConfigFile
	}

	return SourceDefault
}

// CheckOverrides checks for configuration overrides and returns a
// list of detected overrides. flagOverrides is a map of key ->
// (flagValue, flagWasSet) for flags that were explicitly set.
func CheckOverrides(flagOverrides map[string]struct {
	Value  interface{}
	WasSet bool
}) []ConfigOverride {
	var overrides []ConfigOverride

	for key, flagInfo := range flagOverrides {
		if !flagInfo.WasSet {
			continue
		}

		source := GetValueSource(key)
		if source == SourceConfigFile || source == SourceEnvVar {
			var originalValue interface{}
			switch flagInfo.Value.(type) {
			case bool:
				originalValue = GetBool(key)
			case string:
				originalValue = GetString(key)
			case int:
				originalValue = GetInt(key)
			default:
				originalValue = flagInfo.Value
			}

			overrides = append(overrides, ConfigOverride{
				Key:            key,
				EffectiveValue: flagInfo.Value,
				OverriddenBy:   SourceFlag,
				OriginalSource: source,
				OriginalValue:  originalValue,
			})
		}
	}

	if v != nil {
		for _, key := range v.AllKeys() {
			envSource := GetValueSource(key)
			if envSource == SourceEnvVar && v.InConfig(key) {
				envKey := "OAPS_" + strings.ToUpper(strings.ReplaceAll(strings.ReplaceAll(key, "-", "_"), ".", "_"))
				envValue := os.Getenv(envKey)
				if envValue == "" {
					continue
				}

				overrides = append(overrides, ConfigOverride{
					Key:            key,
					EffectiveValue: v.Get(key),
					OverriddenBy:   SourceEnvVar,
					OriginalSource: SourceConfigFile,
					OriginalValue:  nil,
				})
			}
		}
	}

	return overrides
}

// LogOverride logs a message about a configuration override.
func LogOverride(override ConfigOverride) {
	var sourceDesc string
	switch override.OriginalSource {
	case SourceConfigFile:
		sourceDesc = "config file"
	case SourceEnvVar:
		sourceDesc = "environment variable"
	case SourceDefault:
		sourceDesc = "default"
	default:
		sourceDesc = string(override.OriginalSource)
	}

	var overrideDesc string
	switch override.OverriddenBy {
	case SourceFlag:
		overrideDesc = "command-line flag"
	case SourceEnvVar:
		overrideDesc = "environment variable"
	default:
		overrideDesc = string(override.OverriddenBy)
	}

	log.Warnf("%s overridden by %s (was: %v from %s, now: %v)",
		override.Key, overrideDesc, override.OriginalValue, sourceDesc, override.EffectiveValue)
}

// GetString retrieves a string configuration value.
func GetString(key string) string {
	if v == nil {
		return ""
	}
	return v.GetString(key)
}

// GetBool retrieves a boolean configuration value.
func GetBool(key string) bool {
	if v == nil {
		return false
	}
	return v.GetBool(key)
}

// GetInt retrieves an integer configuration value.
func GetInt(key string) int {
	if v == nil {
		return 0
	}
	return v.GetInt(key)
}

// GetDuration retrieves a duration configuration value.
func GetDuration(key string) time.Duration {
	if v == nil {
		return 0
	}
	return v.GetDuration(key)
}

// Set sets a configuration value.
func Set(key string, value interface{}) {
	if v != nil {
		v.Set(key, value)
	}
}

// AllSettings returns all configuration settings as a map.
func AllSettings() map[string]interface{} {
	if v == nil {
		return map[string]interface{}{}
	}
	return v.AllSettings()
}

// StorePath returns the configured store database path override, or
// the empty string if unset (callers fall back to their own
// discovery in that case).
func StorePath() string {
	return GetString("db")
}

// GitDisabled reports whether the checkpoint layer should be skipped
// entirely (OAPS_NO_GIT / no-git).
func GitDisabled() bool {
	return GetBool("no-git")
}

// LockTimeout returns the configured lock-acquisition timeout,
// defaulting to 30s if unset or unparsable.
func LockTimeout() time.Duration {
	d := GetDuration("lock-timeout")
	if d <= 0 {
		return 30 * time.Second
	}
	return d
}

// GetIdentity resolves the user's identity for commit authorship and
// history-log entries. Priority chain:
//  1. flagValue (if non-empty, from an --actor flag)
//  2. OAPS_ACTOR env var / config.yaml actor field (via viper)
//  3. git config user.name
//  4. hostname
func GetIdentity(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}

	if actor := GetString("actor"); actor != "" {
		return actor
	}

	cmd := exec.Command("git", "config", "user.name")
	if output, err := cmd.Output(); err == nil {
		if gitUser := strings.TrimSpace(string(output)); gitUser != "" {
			return gitUser
		}
	}

	if hostname, err := os.Hostname(); err == nil && hostname != "" {
		return hostname
	}

	return "unknown"
}
