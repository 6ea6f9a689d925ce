package structures

import "time"

type CliFlags struct {
	ConfigPath string
	DebugMode  bool
}

type Server struct {
	Host string `yaml:"host" validate:"required"`
	Port int    `yaml:"port" validate:"required|uint|min:1"`
}

type StoreConfig struct {
	Backend     string        `yaml:"backend" validate:"required|in:bolt,memory"`
	FilePath    string        `yaml:"filePath" validate:"unixPath"`
	OpenTimeout time.Duration `yaml:"openTimeout"`
}

type WeightConfig struct {
	Read  uint64 `yaml:"read"`
	Write uint64 `yaml:"write"`
}

type MigrationConfig struct {
	TargetVersion uint16       `yaml:"targetVersion" validate:"uint|max:2"`
	MaxLength     int          `yaml:"maxLength" validate:"required|uint|min:1"`
	Verify        bool         `yaml:"verify"`
	DecodeFailure string       `yaml:"decodeFailure" validate:"required|in:drop,retain"`
	Weight        WeightConfig `yaml:"weight"`
}

type SnapshotConfig struct {
	FilePath string        `yaml:"filePath" validate:"unixPath"`
	Interval time.Duration `yaml:"interval"`
}

type LoggerConfig struct {
	Level   string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode    uint32 `yaml:"mode" validate:"required|uint"`
	Dir     string `yaml:"dir" validate:"required|unixPath"`
	Console bool   `yaml:"console"`
}

type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	Size    int           `yaml:"size"`
	TTL     time.Duration `yaml:"ttl"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type Config struct {
	AppName   string
	Debug     bool
	Path      string
	Store     StoreConfig     `yaml:"store"`
	Migration MigrationConfig `yaml:"migration"`
	Snapshot  SnapshotConfig  `yaml:"snapshot"`
	WebServer Server          `yaml:"webServer"`
	Logger    LoggerConfig    `yaml:"logger"`
	Cache     CacheConfig     `yaml:"cache"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}
