package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
)

// ApplyEnvOverrides applies LINTKIT_* environment variables to cfg, e.g.
// LINTKIT_DB or LINTKIT_DISABLED_CHECKS=a,b.
func ApplyEnvOverrides(cfg *Config) {
	setEnvString(&cfg.DB, "LINTKIT_DB")
	setEnvString(&cfg.ScriptsDir, "LINTKIT_SCRIPTS_DIR")
	setEnvString(&cfg.LogLevel, "LINTKIT_LOG_LEVEL")
	setEnvInt(&cfg.MaxExpansionDepth, "LINTKIT_MAX_EXPANSION_DEPTH")
	if val, ok := os.LookupEnv("LINTKIT_DISABLED_CHECKS"); ok {
		slog.Debug("applying env override", "key", "LINTKIT_DISABLED_CHECKS", "value", val)
		cfg.DisabledChecks = nil
		for _, name := range strings.Split(val, ",") {
			if name = strings.TrimSpace(name); name != "" {
				cfg.DisabledChecks = append(cfg.DisabledChecks, name)
			}
		}
	}
	if val, ok := os.LookupEnv("LINTKIT_PARALLEL"); ok {
		if b, err := strconv.ParseBool(strings.ToLower(val)); err == nil {
			slog.Debug("applying env override", "key", "LINTKIT_PARALLEL", "value", val)
			cfg.Parallel = &b
		}
	}
}

func setEnvString(target *string, key string) {
	if val, ok := os.LookupEnv(key); ok {
		slog.Debug("applying env override", "key", key, "value", val)
		*target = val
	}
}

func setEnvInt(target *int, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(val); err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = i
		}
	}
}
