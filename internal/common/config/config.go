// internal/common/config/config.go
package config

// Config is the main application configuration struct.
type Config struct {
	App     AppConfig     `mapstructure:"app"`
	Server  ServerConfig  `mapstructure:"server"`
	Seoul   SeoulConfig   `mapstructure:"seoul"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Address      string `mapstructure:"address"`
	ReadTimeout  int    `mapstructure:"read_timeout"`  // milliseconds
	WriteTimeout int    `mapstructure:"write_timeout"` // milliseconds
}

// SeoulConfig holds settings for the Seoul open-data API.
type SeoulConfig struct {
	BaseURL     string `mapstructure:"base_url"`
	APIKey      string `mapstructure:"api_key"`
	Timeout     int    `mapstructure:"timeout"`      // milliseconds, per upstream request
	ChunkSize   int    `mapstructure:"chunk_size"`   // rows per upstream page
	MaxRecords  int    `mapstructure:"max_records"`  // upper bound on a full-range fetch
	MaxParallel int    `mapstructure:"max_parallel"` // bound on concurrent chunk fetches
}

// CacheConfig holds settings for the search-result cache.
type CacheConfig struct {
	Backend    string      `mapstructure:"backend"` // "memory" or "redis"
	TTLSeconds int         `mapstructure:"ttl_seconds"`
	Capacity   int         `mapstructure:"capacity"` // memory backend only
	Redis      RedisConfig `mapstructure:"redis"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
