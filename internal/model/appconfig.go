package model

// AppConfig holds application-wide preferences and default settings.
type AppConfig struct {
	// Pricing defaults applied to new drafts
	DefaultMandatoryPercentage float64 `json:"default_mandatory_percentage"`
	Currency                   string  `json:"currency"`

	// Catalog search
	SearchDebounceMs int    `json:"search_debounce_ms"`
	DatabaseURL      string `json:"database_url,omitempty"` // Postgres catalog; empty uses the local inventory file
	InventoryPath    string `json:"inventory_path,omitempty"`

	// HTTP server
	ListenAddr string `json:"listen_addr"`

	// Logging
	LogLevel  string `json:"log_level"`
	LogFormat string `json:"log_format"` // "console" or "json"
	LogOutput string `json:"log_output"` // "stdout", "stderr" or a file path

	RecentContracts []string `json:"recent_contracts"`
}

// DefaultAppConfig returns an AppConfig populated with sensible defaults.
func DefaultAppConfig() AppConfig {
	return AppConfig{
		DefaultMandatoryPercentage: 20,
		Currency:                   "IRR",
		SearchDebounceMs:           300,
		ListenAddr:                 ":8080",
		LogLevel:                   "info",
		LogFormat:                  "console",
		LogOutput:                  "stderr",
		RecentContracts:            []string{},
	}
}

// NewDraft creates a draft that inherits the configured markup percentage.
func (c AppConfig) NewDraft(stairSystemID string, kind PartKind) StairPartDraft {
	return NewStairPartDraft(stairSystemID, kind, c.DefaultMandatoryPercentage)
}
