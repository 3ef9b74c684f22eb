package config

// NewDefaultConfig returns a config populated with development defaults.
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "dev",
		Server: ServerConfig{
			Port: 4360,
			Host: "localhost",
		},
		API: APIConfig{
			URL: "http://127.0.0.1:8000/api",
		},
		Market: MarketConfig{
			RefreshSeconds:  60,
			CacheMaxEntries: 512,
		},
		News: NewsConfig{
			DefaultCountry: "us",
			Countries:      []string{"us", "gb", "jp", "bd"},
		},
		Auth: AuthConfig{
			JWTSecret: "finboard-dev-secret-change-me",
		},
		Storage: StorageConfig{
			Badger: BadgerConfig{
				Path: "./data/finboard",
			},
		},
		Logging: LoggingConfig{
			Level:      "info",
			Outputs:    []string{"console", "file"},
			FilePath:   "logs/finboard.log",
			MaxSizeMB:  1,
			MaxBackups: 20,
		},
	}
}
