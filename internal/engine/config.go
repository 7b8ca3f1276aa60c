package engine

import (
	"net/http"
	"time"
)

// Config holds all engine configuration, injected from main.
type Config struct {
	LLMAPIBase     string
	LLMAPIKey      string // default key when a request carries none
	LLMModel       string
	LLMTemperature float64
	LLMMaxTokens   int
	LLMTimeout     time.Duration
	FetchTimeout   time.Duration
	MaxPageBytes   int64
	MapConcurrency int
	MapRPS         float64
	HTTPClient     *http.Client // YouTube watch page and caption payloads
	PageClient     *http.Client // arbitrary web pages, relaxed TLS
}

// Defaults used when main leaves a field zero.
const (
	DefaultLLMAPIBase     = "https://api.groq.com/openai/v1"
	DefaultLLMModel       = "llama3-8b-8192"
	DefaultLLMTemperature = 0.1
	DefaultLLMMaxTokens   = 2000
	DefaultMaxPageBytes   = 10 << 20
)

var cfg = withDefaults(Config{})

// Cfg exposes the engine configuration for sub-packages (sources).
// Always points to the current cfg value.
var Cfg = &cfg

// Init initializes the engine with the given configuration.
func Init(c Config) {
	cfg = withDefaults(c)
	Cfg = &cfg
}

func withDefaults(c Config) Config {
	if c.LLMAPIBase == "" {
		c.LLMAPIBase = DefaultLLMAPIBase
	}
	if c.LLMModel == "" {
		c.LLMModel = DefaultLLMModel
	}
	if c.LLMTemperature == 0 {
		c.LLMTemperature = DefaultLLMTemperature
	}
	if c.LLMMaxTokens == 0 {
		c.LLMMaxTokens = DefaultLLMMaxTokens
	}
	if c.LLMTimeout == 0 {
		c.LLMTimeout = 120 * time.Second
	}
	if c.FetchTimeout == 0 {
		c.FetchTimeout = 30 * time.Second
	}
	if c.MaxPageBytes == 0 {
		c.MaxPageBytes = DefaultMaxPageBytes
	}
	if c.MapConcurrency <= 0 {
		c.MapConcurrency = 4
	}
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: c.FetchTimeout}
	}
	if c.PageClient == nil {
		c.PageClient = newPageClient(c.FetchTimeout)
	}
	return c
}
