package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort        string
	GinMode           string
	TesseractDataPath string
	MaxFileSize       int64 // cap on an upload request body

	AnalysisAPIURL     string
	AnalysisTimeout    time.Duration
	AnalysisMaxRetries int

	GeminiAPIKey string
	GeminiModel  string

	OtherThreshold float64
	IncomeMarker   string
	ReportTitle    string
}

// tunables is the optional TOML overlay pointed to by TAXWISE_CONFIG.
type tunables struct {
	Server struct {
		Port        string `toml:"port"`
		MaxUploadMB int64  `toml:"max_upload_mb"`
	} `toml:"server"`
	Analysis struct {
		URL            string `toml:"url"`
		TimeoutSeconds int    `toml:"timeout_seconds"`
		MaxRetries     *int   `toml:"max_retries"`
	} `toml:"analysis"`
	Spending struct {
		OtherThreshold *float64 `toml:"other_threshold"`
		IncomeMarker   string   `toml:"income_marker"`
	} `toml:"spending"`
	Report struct {
		Title string `toml:"title"`
	} `toml:"report"`
	Assistant struct {
		Model string `toml:"model"`
	} `toml:"assistant"`
}

// LoadConfig builds the configuration from defaults, then the TOML file at
// path (or TAXWISE_CONFIG when path is empty), then environment variables.
// A .env file in the working directory is loaded first when present.
func LoadConfig(path string) (*Config, error) {
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded environment from .env")
	}

	cfg := &Config{
		ServerPort:         "8080",
		GinMode:            "release",
		TesseractDataPath:  "/usr/share/tesseract-ocr/5/tessdata/",
		MaxFileSize:        32 << 20,
		AnalysisAPIURL:     "http://127.0.0.1:5000/upload",
		AnalysisTimeout:    120 * time.Second,
		AnalysisMaxRetries: 3,
		GeminiModel:        "gemini-1.5-flash",
		OtherThreshold:     0.03,
		IncomeMarker:       "income",
		ReportTitle:        "TaxWise Financial Summary",
	}

	if path == "" {
		path = os.Getenv("TAXWISE_CONFIG")
	}
	if path != "" {
		if err := cfg.applyFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyFile(path string) error {
	var t tunables
	if _, err := toml.DecodeFile(path, &t); err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if t.Server.Port != "" {
		c.ServerPort = t.Server.Port
	}
	if t.Server.MaxUploadMB > 0 {
		c.MaxFileSize = t.Server.MaxUploadMB << 20
	}
	if t.Analysis.URL != "" {
		c.AnalysisAPIURL = t.Analysis.URL
	}
	if t.Analysis.TimeoutSeconds != 0 {
		c.AnalysisTimeout = time.Duration(t.Analysis.TimeoutSeconds) * time.Second
	}
	if t.Analysis.MaxRetries != nil {
		c.AnalysisMaxRetries = *t.Analysis.MaxRetries
	}
	if t.Spending.OtherThreshold != nil {
		c.OtherThreshold = *t.Spending.OtherThreshold
	}
	if t.Spending.IncomeMarker != "" {
		c.IncomeMarker = t.Spending.IncomeMarker
	}
	if t.Report.Title != "" {
		c.ReportTitle = t.Report.Title
	}
	if t.Assistant.Model != "" {
		c.GeminiModel = t.Assistant.Model
	}
	return nil
}

func (c *Config) applyEnv() error {
	c.ServerPort = getEnv("SERVER_PORT", c.ServerPort)
	c.GinMode = getEnv("GIN_MODE", c.GinMode)
	c.TesseractDataPath = getEnv("TESSDATA_PREFIX", c.TesseractDataPath)
	c.AnalysisAPIURL = getEnv("ANALYSIS_API_URL", c.AnalysisAPIURL)
	c.GeminiAPIKey = getEnv("GEMINI_API_KEY", c.GeminiAPIKey)
	c.GeminiModel = getEnv("GEMINI_MODEL", c.GeminiModel)

	if v := os.Getenv("ANALYSIS_TIMEOUT_SECONDS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid ANALYSIS_TIMEOUT_SECONDS %q: %w", v, err)
		}
		c.AnalysisTimeout = time.Duration(n) * time.Second
	}
	if v := os.Getenv("ANALYSIS_MAX_RETRIES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid ANALYSIS_MAX_RETRIES %q: %w", v, err)
		}
		c.AnalysisMaxRetries = n
	}
	if v := os.Getenv("MAX_UPLOAD_MB"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid MAX_UPLOAD_MB %q: %w", v, err)
		}
		c.MaxFileSize = n << 20
	}
	if v := os.Getenv("OTHER_THRESHOLD"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid OTHER_THRESHOLD %q: %w", v, err)
		}
		c.OtherThreshold = f
	}
	return nil
}

// Validate checks that the loaded values are usable.
func (c *Config) Validate() error {
	port, err := strconv.Atoi(c.ServerPort)
	if err != nil || port <= 0 || port > 65535 {
		return fmt.Errorf("invalid server port %q", c.ServerPort)
	}
	if c.AnalysisAPIURL == "" {
		return errors.New("ANALYSIS_API_URL is required")
	}
	if c.AnalysisTimeout <= 0 {
		return errors.New("analysis timeout must be positive")
	}
	if c.AnalysisMaxRetries < 0 {
		return errors.New("analysis max retries cannot be negative")
	}
	if c.MaxFileSize <= 0 {
		return errors.New("max upload size must be positive")
	}
	if c.OtherThreshold < 0 || c.OtherThreshold >= 1 {
		return fmt.Errorf("other threshold %v out of range [0, 1)", c.OtherThreshold)
	}
	return nil
}

// AssistantEnabled reports whether the AI chat backend is configured.
func (c *Config) AssistantEnabled() bool {
	return c.GeminiAPIKey != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
