package config

// Config holds drillbook configuration.
// Stored at: ./config.yaml or ~/.drillbook/config.yaml
type Config struct {
	VLM          VLMCfg          `mapstructure:"vlm" yaml:"vlm"`
	Postgres     PostgresCfg     `mapstructure:"postgres" yaml:"postgres"`
	Decomposer   DecomposerCfg   `mapstructure:"decomposer" yaml:"decomposer"`
	Indexer      IndexerCfg      `mapstructure:"indexer" yaml:"indexer"`
	Server       ServerCfg       `mapstructure:"server" yaml:"server"`
	Uploads      UploadsCfg      `mapstructure:"uploads" yaml:"uploads"`
	Segmentation SegmentationCfg `mapstructure:"segmentation" yaml:"segmentation"`
}

// VLMCfg configures the vision-language model backend.
type VLMCfg struct {
	Backend           string  `mapstructure:"backend" yaml:"backend"` // "ollama" or "openai"
	BaseURL           string  `mapstructure:"base_url" yaml:"base_url"`
	Model             string  `mapstructure:"model" yaml:"model"`
	APIKey            string  `mapstructure:"api_key" yaml:"api_key"` // supports ${ENV_VAR} syntax
	TimeoutSeconds    int     `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
	RateLimit         float64 `mapstructure:"rate_limit" yaml:"rate_limit"` // requests per second, 0 disables
	MaxTokensClassify int     `mapstructure:"max_tokens_classify" yaml:"max_tokens_classify"`
	MaxTokensExtract  int     `mapstructure:"max_tokens_extract" yaml:"max_tokens_extract"`
	CacheSize         int     `mapstructure:"cache_size" yaml:"cache_size"`
}

// PostgresCfg configures session plan persistence. An empty DSN runs
// the service without a database.
type PostgresCfg struct {
	DSN string `mapstructure:"dsn" yaml:"dsn"` // supports ${ENV_VAR} syntax
}

// DecomposerCfg points at the PDF decomposition service.
type DecomposerCfg struct {
	URL            string `mapstructure:"url" yaml:"url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
}

// IndexerCfg points at the visual retrieval indexer. An empty URL
// disables indexing.
type IndexerCfg struct {
	URL            string `mapstructure:"url" yaml:"url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
}

// ServerCfg configures the HTTP API listener.
type ServerCfg struct {
	Host string `mapstructure:"host" yaml:"host"`
	Port int    `mapstructure:"port" yaml:"port"`
}

// UploadsCfg configures PDF upload intake.
type UploadsCfg struct {
	Dir      string `mapstructure:"dir" yaml:"dir"` // empty means {home}/uploads
	MaxBytes int64  `mapstructure:"max_bytes" yaml:"max_bytes"`
}

// SegmentationCfg tunes markdown drill segmentation.
type SegmentationCfg struct {
	SplitOnRepeatedSetup bool `mapstructure:"split_on_repeated_setup" yaml:"split_on_repeated_setup"`
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		VLM: VLMCfg{
			Backend:           "ollama",
			BaseURL:           "http://localhost:11434",
			Model:             "qwen2.5vl:32b",
			APIKey:            "${OPENAI_API_KEY}",
			TimeoutSeconds:    300,
			RateLimit:         0,
			MaxTokensClassify: 1024,
			MaxTokensExtract:  4096,
			CacheSize:         256,
		},
		Postgres: PostgresCfg{
			DSN: "${DRILLBOOK_PG_DSN}",
		},
		Decomposer: DecomposerCfg{
			URL:            "http://localhost:8003",
			TimeoutSeconds: 600,
		},
		Indexer: IndexerCfg{
			URL:            "",
			TimeoutSeconds: 300,
		},
		Server: ServerCfg{
			Host: "0.0.0.0",
			Port: 8002,
		},
		Uploads: UploadsCfg{
			Dir:      "",
			MaxBytes: 50 << 20,
		},
		Segmentation: SegmentationCfg{
			SplitOnRepeatedSetup: true,
		},
	}
}
