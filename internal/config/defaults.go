package config

func Defaults() *Config {
	return &Config{
		General: GeneralConfig{
			LogLevel: "info",
		},
		Server: ServerConfig{
			Host: "127.0.0.1",
			Port: 3055,
			Path: "/channel",
		},
		Channels: ChannelsConfig{
			WebSocket: true,
			Stdio:     false,
		},
		Document: DocumentConfig{
			Name:     "Untitled",
			Editable: true,
		},
		History: HistoryConfig{
			Enabled:       true,
			DBPath:        "~/.drawbridge/history.db",
			RetentionDays: 30,
		},
		Fetch: FetchConfig{
			TimeoutSeconds: 30,
		},
		Metrics: MetricsConfig{
			Enabled:  false,
			Port:     9090,
			Endpoint: "/metrics",
		},
	}
}
