package providers

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"acctrack/internal/lifecycle"
	"acctrack/internal/structures"

	"github.com/spf13/viper"
)

const AppName = "AccountStatusTracker"

func setDefaults(v *viper.Viper) {
	v.SetDefault("webServer.host", "0.0.0.0")
	v.SetDefault("webServer.port", 8090)
	v.SetDefault("storage.driver", "bolt")
	v.SetDefault("storage.timeout", time.Second)
	v.SetDefault("lifecycle.agingDays", lifecycle.DefaultAgingDays)
	v.SetDefault("lifecycle.resetDays", lifecycle.DefaultResetDays)
	v.SetDefault("lifecycle.sweepInterval", time.Hour)
	v.SetDefault("backup.interval", 30*time.Minute)
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.mode", 0644)
	v.SetDefault("cache.size", 16)
	v.SetDefault("cache.ttl", 2*time.Second)
}

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	v := viper.New()
	filename := filepath.Base(flags.ConfigPath)
	v.AddConfigPath(filepath.Dir(flags.ConfigPath))
	v.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	v.SetConfigType("yaml")
	setDefaults(v)

	v.BindEnv("webServer.port", "ACCTRACK_PORT")
	v.BindEnv("storage.driver", "ACCTRACK_STORAGE_DRIVER")
	v.BindEnv("storage.path", "ACCTRACK_STORAGE_PATH")
	v.BindEnv("logger.level", "ACCTRACK_LOG_LEVEL")
	v.BindEnv("lifecycle.sweepInterval", "ACCTRACK_SWEEP_INTERVAL")
	v.BindEnv("backup.enabled", "ACCTRACK_BACKUP_ENABLED")
	v.BindEnv("cache.enabled", "ACCTRACK_CACHE_ENABLED")
	v.BindEnv("metrics.enabled", "ACCTRACK_METRICS_ENABLED")

	err := v.ReadInConfig()
	if err != nil {
		return nil, err
	}

	err = v.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	conf.AppName = AppName
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}
