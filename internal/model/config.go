package model

import "time"

// Config is the complete railvoice configuration.
// Field tags serve both viper (mapstructure) and the YAML written by `config init`.
type Config struct {
	Tables       TablesConfig       `yaml:"tables" mapstructure:"tables"`
	Lemmatizer   LemmatizerConfig   `yaml:"lemmatizer" mapstructure:"lemmatizer"`
	ASR          ASRConfig          `yaml:"asr" mapstructure:"asr"`
	HTTP         HTTPConfig         `yaml:"http" mapstructure:"http"`
	Concurrency  ConcurrencyConfig  `yaml:"concurrency" mapstructure:"concurrency"`
	RateLimiting RateLimitingConfig `yaml:"rate_limiting" mapstructure:"rate_limiting"`
	Output       OutputConfig       `yaml:"output" mapstructure:"output"`
	Server       ServerConfig       `yaml:"server" mapstructure:"server"`

	// Seed makes tie-breaks reproducible per clip. Zero means time-seeded.
	Seed int64 `yaml:"seed" mapstructure:"seed"`
}

// TablesConfig points at optional YAML overrides of the built-in tables
type TablesConfig struct {
	CatalogPath string `yaml:"catalog_path" mapstructure:"catalog_path"` // Empty: built-in command catalog
	LexiconPath string `yaml:"lexicon_path" mapstructure:"lexicon_path"` // Empty: built-in Russian numerals
	Gate        []int  `yaml:"gate" mapstructure:"gate"`                 // Labels allowed to carry a quantity
}

// LemmatizerConfig selects the lemmatization backend
type LemmatizerConfig struct {
	Provider string        `yaml:"provider" mapstructure:"provider"` // dictionary, http
	BaseURL  string        `yaml:"base_url" mapstructure:"base_url"`
	Timeout  time.Duration `yaml:"timeout" mapstructure:"timeout"`
	Cache    CacheConfig   `yaml:"cache" mapstructure:"cache"`
}

// CacheConfig controls lemma caching
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskDir   string        `yaml:"disk_dir" mapstructure:"disk_dir"` // Empty: memory only
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// ASRConfig selects and configures the transcription backend
type ASRConfig struct {
	Provider   string        `yaml:"provider" mapstructure:"provider"` // openai, vosk, text
	Model      string        `yaml:"model" mapstructure:"model"`
	Language   string        `yaml:"language" mapstructure:"language"`
	APIKey     string        `yaml:"api_key,omitempty" mapstructure:"api_key"`
	BaseURL    string        `yaml:"base_url,omitempty" mapstructure:"base_url"`
	ModelPath  string        `yaml:"model_path,omitempty" mapstructure:"model_path"` // Vosk model directory
	SampleRate int           `yaml:"sample_rate" mapstructure:"sample_rate"`         // Vosk recognizer rate; 0 follows the clip header
	ChunkMs    int           `yaml:"chunk_ms" mapstructure:"chunk_ms"`               // Audio per Vosk AcceptWaveform call
	Timeout    time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// HTTPConfig holds proxy settings shared by HTTP backends
type HTTPConfig struct {
	HTTPProxy  string `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy string `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
	NoProxy    string `yaml:"no_proxy,omitempty" mapstructure:"no_proxy"`
}

// ConcurrencyConfig controls batch parallelism
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// RateLimitingConfig throttles calls to remote transcription backends
type RateLimitingConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	BurstSize         int     `yaml:"burst_size" mapstructure:"burst_size"`
}

// OutputConfig controls result rendering
type OutputConfig struct {
	Verbose   bool   `yaml:"verbose" mapstructure:"verbose"`
	Extension string `yaml:"extension" mapstructure:"extension"` // Clip extension picked up by batch
	CSV       bool   `yaml:"csv" mapstructure:"csv"`             // Also write a CSV report
}

// ServerConfig controls the HTTP API started by `serve`
type ServerConfig struct {
	Addr            string        `yaml:"addr" mapstructure:"addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" mapstructure:"shutdown_timeout"`
	MaxUploadBytes  int64         `yaml:"max_upload_bytes" mapstructure:"max_upload_bytes"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		Tables: TablesConfig{
			Gate: []int{4, 10},
		},
		Lemmatizer: LemmatizerConfig{
			Provider: "dictionary",
			Timeout:  5 * time.Second,
			Cache: CacheConfig{
				Enabled:   true,
				MemoryTTL: time.Hour,
				DiskTTL:   30 * 24 * time.Hour,
			},
		},
		ASR: ASRConfig{
			Provider:   "text",
			Model:      "whisper-1",
			Language:   "ru",
			SampleRate: 16000,
			ChunkMs:    4000,
			Timeout:    2 * time.Minute,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		RateLimiting: RateLimitingConfig{
			RequestsPerSecond: 2,
			BurstSize:         4,
		},
		Output: OutputConfig{
			Extension: "wav",
		},
		Server: ServerConfig{
			Addr:            "127.0.0.1:8080",
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    5 * time.Minute,
			ShutdownTimeout: 10 * time.Second,
			MaxUploadBytes:  25 << 20,
		},
	}
}
