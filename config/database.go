package config

// DBConfig contains PostgreSQL database configuration.
type DBConfig struct {
	Host     string `env:"HOST"     envDefault:"localhost"`
	Port     int    `env:"PORT"     envDefault:"5432"`
	User     string `env:"USER"     envDefault:"tenderwatch"`
	Password string `env:"PASSWORD" envDefault:"tenderwatch"`
	Name     string `env:"NAME"     envDefault:"tenderwatch"`
	SSLMode  string `env:"SSL_MODE" envDefault:"disable"`

	MaxOpenConns int `env:"MAX_OPEN_CONNS" envDefault:"25"`
	MaxIdleConns int `env:"MAX_IDLE_CONNS" envDefault:"5"`

	// RunMigrationsOnStart applies embedded migrations before services start.
	RunMigrationsOnStart bool `env:"RUN_MIGRATIONS_ON_START" envDefault:"true"`
}

// RedisConfig contains Redis configuration. Redis backs sessions and,
// optionally, the dispatch lock.
type RedisConfig struct {
	// URI is either host:port or a redis:// / rediss:// URL. Empty disables Redis.
	URI                string   `env:"URI"                  envDefault:"localhost:6379"`
	Password           string   `env:"PASSWORD"             envDefault:""`
	SentinelNodes      []string `env:"SENTINEL_NODES"       envDefault:""`
	SentinelMasterName string   `env:"SENTINEL_MASTER_NAME" envDefault:"mymaster"`
	SentinelPassword   string   `env:"SENTINEL_PASSWORD"    envDefault:""`
	UseSentinel        bool     `env:"USE_SENTINEL"         envDefault:"false"`
}

// Configured reports whether enough settings are present to dial Redis.
func (r RedisConfig) Configured() bool {
	if r.UseSentinel {
		return len(r.SentinelNodes) > 0
	}
	return r.URI != ""
}
