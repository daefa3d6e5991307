package model

// Config is the complete postlens configuration
type Config struct {
	Workers     int               `yaml:"workers" json:"workers" mapstructure:"workers"`
	Credibility CredibilityConfig `yaml:"credibility" json:"credibility" mapstructure:"credibility"`
	Topics      TopicsConfig      `yaml:"topics" json:"topics" mapstructure:"topics"`
	Trends      TrendsConfig      `yaml:"trends" json:"trends" mapstructure:"trends"`
	LLM         LLMConfig         `yaml:"llm" json:"llm" mapstructure:"llm"`
	Store       StoreConfig       `yaml:"store" json:"store" mapstructure:"store"`
	Output      OutputConfig      `yaml:"output" json:"output" mapstructure:"output"`
	LogLevel    string            `yaml:"log_level" json:"log_level" mapstructure:"log_level"`
}

// CredibilityConfig configures the rule engine
type CredibilityConfig struct {
	// TrustedDomains and UntrustedDomains override the built-in lists
	// when non-empty. Membership is substring containment, not hostname
	// parsing.
	TrustedDomains   []string `yaml:"trusted_domains,omitempty" json:"trusted_domains,omitempty" mapstructure:"trusted_domains"`
	UntrustedDomains []string `yaml:"untrusted_domains,omitempty" json:"untrusted_domains,omitempty" mapstructure:"untrusted_domains"`

	// DisableJitter turns off the random score jitter for fully
	// deterministic runs
	DisableJitter bool  `yaml:"disable_jitter" json:"disable_jitter" mapstructure:"disable_jitter"`
	JitterSeed    int64 `yaml:"jitter_seed" json:"jitter_seed" mapstructure:"jitter_seed"`

	// LowThreshold marks posts below this score as low credibility in
	// the report aggregates
	LowThreshold int `yaml:"low_threshold" json:"low_threshold" mapstructure:"low_threshold"`
}

// TopicsConfig configures topic extraction
type TopicsConfig struct {
	Count    int `yaml:"count" json:"count" mapstructure:"count"`
	MaxCount int `yaml:"max_count" json:"max_count" mapstructure:"max_count"`
}

// TrendsConfig configures trending keyword detection
type TrendsConfig struct {
	MinCount int     `yaml:"min_count" json:"min_count" mapstructure:"min_count"`
	Ratio    float64 `yaml:"ratio" json:"ratio" mapstructure:"ratio"`
}

// LLMConfig configures the optional summary provider
type LLMConfig struct {
	Provider  string `yaml:"provider" json:"provider" mapstructure:"provider"` // openai, ollama, "" (disabled)
	Model     string `yaml:"model" json:"model" mapstructure:"model"`
	APIKey    string `yaml:"-" json:"-" mapstructure:"-"` // From environment only, never persisted
	BaseURL   string `yaml:"base_url,omitempty" json:"base_url,omitempty" mapstructure:"base_url"`
	Timeout   int    `yaml:"timeout" json:"timeout" mapstructure:"timeout"` // Seconds per request
	MaxTokens int    `yaml:"max_tokens" json:"max_tokens" mapstructure:"max_tokens"`

	// RequestsPerSecond paces summary generation calls
	RequestsPerSecond float64 `yaml:"requests_per_second" json:"requests_per_second" mapstructure:"requests_per_second"`
	Burst             int     `yaml:"burst" json:"burst" mapstructure:"burst"`
}

// StoreConfig configures run persistence
type StoreConfig struct {
	Enabled bool   `yaml:"enabled" json:"enabled" mapstructure:"enabled"`
	Path    string `yaml:"path" json:"path" mapstructure:"path"`
}

// OutputConfig configures report rendering
type OutputConfig struct {
	Verbose       bool `yaml:"verbose" json:"verbose" mapstructure:"verbose"`
	IncludeFooter bool `yaml:"include_footer" json:"include_footer" mapstructure:"include_footer"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		Workers: 4,
		Credibility: CredibilityConfig{
			LowThreshold: 40,
		},
		Topics: TopicsConfig{
			Count:    5,
			MaxCount: 10,
		},
		Trends: TrendsConfig{
			MinCount: 5,
			Ratio:    1.5,
		},
		LLM: LLMConfig{
			Provider:          "",
			Timeout:           30,
			MaxTokens:         1000,
			RequestsPerSecond: 1,
			Burst:             2,
		},
		Store: StoreConfig{
			Enabled: false,
			Path:    "postlens.db",
		},
		Output: OutputConfig{
			IncludeFooter: true,
		},
		LogLevel: "info",
	}
}
