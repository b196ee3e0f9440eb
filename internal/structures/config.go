package structures

import "time"

type Server struct {
	Host string `mapstructure:"host" yaml:"host" validate:"required"`
	Port int    `mapstructure:"port" yaml:"port" validate:"required|uint|min:1|max:65535"`
}

type StorageConfig struct {
	Driver  string        `mapstructure:"driver" yaml:"driver" validate:"required|in:bolt,sqlite"`
	Path    string        `mapstructure:"path" yaml:"path" validate:"required|unixPath"`
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

type LifecycleConfig struct {
	AgingDays     int           `mapstructure:"agingDays" yaml:"agingDays" validate:"required|min:1"`
	ResetDays     int           `mapstructure:"resetDays" yaml:"resetDays" validate:"required|min:1"`
	SweepInterval time.Duration `mapstructure:"sweepInterval" yaml:"sweepInterval" validate:"required|min:1"`
}

type BackupConfig struct {
	Enabled  bool          `mapstructure:"enabled" yaml:"enabled"`
	FilePath string        `mapstructure:"filePath" yaml:"filePath"`
	Interval time.Duration `mapstructure:"interval" yaml:"interval"`
}

type LoggerConfig struct {
	Level string `mapstructure:"level" yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode  uint32 `mapstructure:"mode" yaml:"mode" validate:"required|uint"`
	Dir   string `mapstructure:"dir" yaml:"dir" validate:"required|unixPath"`
}

type CacheConfig struct {
	Enabled bool          `mapstructure:"enabled" yaml:"enabled"`
	Size    int           `mapstructure:"size" yaml:"size"`
	TTL     time.Duration `mapstructure:"ttl" yaml:"ttl"`
}

type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
}

type Config struct {
	AppName   string
	Debug     bool
	Path      string
	WebServer Server          `mapstructure:"webServer" yaml:"webServer"`
	Storage   StorageConfig   `mapstructure:"storage" yaml:"storage"`
	Lifecycle LifecycleConfig `mapstructure:"lifecycle" yaml:"lifecycle"`
	Backup    BackupConfig    `mapstructure:"backup" yaml:"backup"`
	Logger    LoggerConfig    `mapstructure:"logger" yaml:"logger"`
	Cache     CacheConfig     `mapstructure:"cache" yaml:"cache"`
	Metrics   MetricsConfig   `mapstructure:"metrics" yaml:"metrics"`
}
