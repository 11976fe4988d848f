package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"fishdetector/internal/model"
)

const (
	// MinCameraFrames and MaxCameraFrames bound how many frames a camera run may take.
	MinCameraFrames = 5
	MaxCameraFrames = 250
)

type Config struct {
	Source      string // cam, vid or dir; empty means ask on stdin
	CameraID    int
	NumFrames   int
	VideoPath   string
	SearchDir   string
	VideoSuffix string
	FramesDir   string

	OutputPath string
	OutputFPS  float64
	Codecs     []string

	Band            model.ColorBand
	AnalysisWorkers int // Liczba workerów analizy klatek
	CaptureWorkers  int // Liczba workerów dekodujących klatki z katalogu
	QueueSize       int
	SummaryFrames   int

	Display      bool
	PreviewPort  int
	PreviewToken string

	DatabasePath string
	LogDirectory string

	MQTTBroker string
	MQTTTopic  string

	ConfigFile string
}

// fileOverrides is the subset of Config that may come from a YAML file.
type fileOverrides struct {
	Band *struct {
		Lower string `yaml:"lower"`
		Upper string `yaml:"upper"`
	} `yaml:"band"`
	AnalysisWorkers *int     `yaml:"analysis_workers"`
	CaptureWorkers  *int     `yaml:"capture_workers"`
	SummaryFrames   *int     `yaml:"summary_frames"`
	OutputPath      *string  `yaml:"output_path"`
	OutputFPS       *float64 `yaml:"output_fps"`
	Codecs          []string `yaml:"codecs"`
}

// Load reads an optional .env file, then the environment, then the optional
// YAML file named by CONFIG_FILE. Band parse errors are returned, not defaulted.
func Load() (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	cfg := &Config{
		Source:          strings.ToLower(getEnv("SOURCE", "")),
		CameraID:        getEnvAsInt("CAMERA_ID", 0),
		NumFrames:       getEnvAsInt("NUM_FRAMES", 30),
		VideoPath:       getEnv("VIDEO_PATH", ""),
		SearchDir:       getEnv("SEARCH_DIR", "."),
		VideoSuffix:     getEnv("VIDEO_SUFFIX", ".mp4"),
		FramesDir:       getEnv("FRAMES_DIR", ""),
		OutputPath:      getEnv("OUTPUT_PATH", "output.mp4"),
		OutputFPS:       getEnvAsFloat("OUTPUT_FPS", 15),
		Codecs:          getEnvAsList("CODECS", []string{"mp4v", "avc1", "H264"}),
		Band:            model.DefaultColorBand(),
		AnalysisWorkers: getEnvAsInt("ANALYSIS_WORKERS", runtime.NumCPU()),
		CaptureWorkers:  getEnvAsInt("CAPTURE_WORKERS", 2),
		QueueSize:       getEnvAsInt("QUEUE_SIZE", 64),
		SummaryFrames:   getEnvAsInt("SUMMARY_FRAMES", 30),
		Display:         getEnvAsBool("DISPLAY_OUTPUT", false),
		PreviewPort:     getEnvAsInt("PREVIEW_PORT", 0),
		PreviewToken:    getEnv("PREVIEW_TOKEN", ""),
		DatabasePath:    getEnv("DB_PATH", filepath.Join(".", "data", "runs.db")),
		LogDirectory:    getEnv("LOG_DIR", filepath.Join(".", "logs")),
		MQTTBroker:      getEnv("MQTT_BROKER", ""),
		MQTTTopic:       getEnv("MQTT_TOPIC", "fishdetector/runs"),
		ConfigFile:      getEnv("CONFIG_FILE", ""),
	}

	if v := os.Getenv("BAND_LOWER"); v != "" {
		lower, err := model.ParseTriple(v)
		if err != nil {
			return nil, fmt.Errorf("BAND_LOWER: %w", err)
		}
		cfg.Band.Lower = lower
	}
	if v := os.Getenv("BAND_UPPER"); v != "" {
		upper, err := model.ParseTriple(v)
		if err != nil {
			return nil, fmt.Errorf("BAND_UPPER: %w", err)
		}
		cfg.Band.Upper = upper
	}

	// "off" disables file logging or run history
	if strings.EqualFold(cfg.DatabasePath, "off") {
		cfg.DatabasePath = ""
	}
	if strings.EqualFold(cfg.LogDirectory, "off") {
		cfg.LogDirectory = ""
	}

	if cfg.ConfigFile != "" {
		if err := cfg.applyFile(cfg.ConfigFile); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: failed to read config file: %v", model.ErrConfiguration, err)
	}

	var f fileOverrides
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("%w: failed to parse config file %s: %v", model.ErrConfiguration, path, err)
	}

	if f.Band != nil {
		if f.Band.Lower != "" {
			lower, err := model.ParseTriple(f.Band.Lower)
			if err != nil {
				return fmt.Errorf("band.lower: %w", err)
			}
			c.Band.Lower = lower
		}
		if f.Band.Upper != "" {
			upper, err := model.ParseTriple(f.Band.Upper)
			if err != nil {
				return fmt.Errorf("band.upper: %w", err)
			}
			c.Band.Upper = upper
		}
	}
	if f.AnalysisWorkers != nil {
		c.AnalysisWorkers = *f.AnalysisWorkers
	}
	if f.CaptureWorkers != nil {
		c.CaptureWorkers = *f.CaptureWorkers
	}
	if f.SummaryFrames != nil {
		c.SummaryFrames = *f.SummaryFrames
	}
	if f.OutputPath != nil {
		c.OutputPath = *f.OutputPath
	}
	if f.OutputFPS != nil {
		c.OutputFPS = *f.OutputFPS
	}
	if len(f.Codecs) > 0 {
		c.Codecs = f.Codecs
	}
	return nil
}

// Validate reports the first setting that makes a run impossible.
func (c *Config) Validate() error {
	if err := c.Band.Validate(); err != nil {
		return err
	}
	if c.AnalysisWorkers < 1 {
		return fmt.Errorf("%w: analysis workers must be at least 1, got %d", model.ErrConfiguration, c.AnalysisWorkers)
	}
	if c.CaptureWorkers < 1 {
		return fmt.Errorf("%w: capture workers must be at least 1, got %d", model.ErrConfiguration, c.CaptureWorkers)
	}
	if c.QueueSize < 0 {
		return fmt.Errorf("%w: queue size must not be negative", model.ErrConfiguration)
	}
	if c.SummaryFrames < 0 {
		return fmt.Errorf("%w: summary frames must not be negative", model.ErrConfiguration)
	}
	if c.OutputFPS <= 0 {
		return fmt.Errorf("%w: output fps must be positive", model.ErrConfiguration)
	}
	if len(c.Codecs) == 0 {
		return fmt.Errorf("%w: at least one codec is required", model.ErrConfiguration)
	}
	switch c.Source {
	case "", "vid", "dir":
	case "cam":
		if c.NumFrames < MinCameraFrames || c.NumFrames > MaxCameraFrames {
			return fmt.Errorf("%w: camera frames must be between %d and %d, got %d",
				model.ErrConfiguration, MinCameraFrames, MaxCameraFrames, c.NumFrames)
		}
	default:
		return fmt.Errorf("%w: unknown source %q", model.ErrConfiguration, c.Source)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
