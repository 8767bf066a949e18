// Package config resolves runtime settings from defaults, an optional .env file
// and TASKFLOW_* environment variables.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type RuntimeConfig struct {
	StorageDriver     string
	DBPath            string
	FocusWorkMinutes  int
	FocusBreakMinutes int
	AIEndpoint        string
	AIAPIKey          string
	AITimeout         time.Duration
	HTTPAddr          string
	LogLevel          string
	LogEncoding       string
	LogFile           string
	AlarmBuffer       int

	DesktopNotifications bool
}

func DefaultRuntimeConfig() RuntimeConfig {
	return RuntimeConfig{
		StorageDriver:     "sqlite",
		DBPath:            "taskflow.db",
		FocusWorkMinutes:  25,
		FocusBreakMinutes: 5,
		AITimeout:         15 * time.Second,
		HTTPAddr:          ":8080",
		LogLevel:          "info",
		LogEncoding:       "json",
		AlarmBuffer:       64,
	}
}

// Load reads .env (when present) into the process environment, then applies
// overrides on top of the defaults.
func Load(envFiles ...string) RuntimeConfig {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		_ = godotenv.Load(f)
	}
	return RuntimeConfigFromEnv(DefaultRuntimeConfig())
}

func RuntimeConfigFromEnv(base RuntimeConfig) RuntimeConfig {
	cfg := base
	if v, ok := getEnvString("TASKFLOW_STORAGE_DRIVER"); ok {
		cfg.StorageDriver = strings.ToLower(v)
	}
	if v, ok := getEnvString("TASKFLOW_DB_PATH"); ok {
		cfg.DBPath = v
	}
	if v, ok := getEnvInt("TASKFLOW_FOCUS_WORK_MINUTES"); ok && v > 0 {
		cfg.FocusWorkMinutes = v
	}
	if v, ok := getEnvInt("TASKFLOW_FOCUS_BREAK_MINUTES"); ok && v > 0 {
		cfg.FocusBreakMinutes = v
	}
	if v, ok := getEnvString("TASKFLOW_AI_ENDPOINT"); ok {
		cfg.AIEndpoint = v
	}
	if v, ok := getEnvString("TASKFLOW_AI_API_KEY"); ok {
		cfg.AIAPIKey = v
	}
	if v, ok := getEnvDuration("TASKFLOW_AI_TIMEOUT"); ok && v > 0 {
		cfg.AITimeout = v
	}
	if v, ok := getEnvString("TASKFLOW_HTTP_ADDR"); ok {
		cfg.HTTPAddr = v
	}
	if v, ok := getEnvString("TASKFLOW_LOG_LEVEL"); ok {
		cfg.LogLevel = v
	}
	if v, ok := getEnvString("TASKFLOW_LOG_ENCODING"); ok {
		cfg.LogEncoding = v
	}
	if v, ok := getEnvString("TASKFLOW_LOG_FILE"); ok {
		cfg.LogFile = v
	}
	if v, ok := getEnvInt("TASKFLOW_ALARM_BUFFER"); ok && v > 0 {
		cfg.AlarmBuffer = v
	}
	if v, ok := getEnvString("TASKFLOW_DESKTOP_NOTIFICATIONS"); ok {
		v = strings.ToLower(v)
		cfg.DesktopNotifications = v == "1" || v == "true" || v == "yes"
	}
	return cfg
}

func getEnvString(name string) (string, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	return raw, raw != ""
}

func getEnvInt(name string) (int, bool) {
	raw, ok := getEnvString(name)
	if !ok {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

// getEnvDuration accepts Go durations ("20s") or a bare number of seconds.
func getEnvDuration(name string) (time.Duration, bool) {
	raw, ok := getEnvString(name)
	if !ok {
		return 0, false
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d, true
	}
	if secs, err := strconv.Atoi(raw); err == nil {
		return time.Duration(secs) * time.Second, true
	}
	return 0, false
}
