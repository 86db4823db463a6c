package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	PoolSize int    `mapstructure:"pool_size"`
}

func (d DBConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.Username, d.Password, d.Host, d.Port, d.Name)
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	// SummaryTTLHours bounds how long cached summaries stay valid.
	SummaryTTLHours int `mapstructure:"summary_ttl_hours"`
}

func (r RedisConfig) SummaryTTL() time.Duration {
	if r.SummaryTTLHours <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(r.SummaryTTLHours) * time.Hour
}

type ServerConfig struct {
	Port           int `mapstructure:"port"`
	MaxUploadMB    int `mapstructure:"max_upload_mb"`
	ShutdownGraceS int `mapstructure:"shutdown_grace_seconds"`
}

type MediaConfig struct {
	FFmpegPath  string `mapstructure:"ffmpeg_path"`
	FFprobePath string `mapstructure:"ffprobe_path"`
}

type ASRConfig struct {
	// Provider selects the backend: whisperhttp, openai or whispercpp.
	Provider       string  `mapstructure:"provider"`
	BaseURL        string  `mapstructure:"base_url"`
	APIKey         string  `mapstructure:"api_key"`
	Model          string  `mapstructure:"model"`
	BinPath        string  `mapstructure:"bin_path"`
	WeightsPath    string  `mapstructure:"weights_path"`
	Language       string  `mapstructure:"language"`
	ChunkSeconds   float64 `mapstructure:"chunk_seconds"`
	OverlapSeconds float64 `mapstructure:"overlap_seconds"`
	TimeoutSeconds int     `mapstructure:"timeout_seconds"`
}

func (a ASRConfig) Timeout() time.Duration {
	if a.TimeoutSeconds <= 0 {
		return 5 * time.Minute
	}
	return time.Duration(a.TimeoutSeconds) * time.Second
}

type SummarizerConfig struct {
	// Provider selects the backend: openai, ollama or gemini.
	Provider      string   `mapstructure:"provider"`
	APIKey        string   `mapstructure:"api_key"`
	Model         string   `mapstructure:"model"`
	SystemPrompt  string   `mapstructure:"system_prompt"`
	MaxInputChars int      `mapstructure:"max_input_chars"`
	OllamaServers []string `mapstructure:"ollama_servers"`
}

type StorageConfig struct {
	UploadsDir     string `mapstructure:"uploads_dir"`
	TranscriptsDir string `mapstructure:"transcripts_dir"`
	SummariesDir   string `mapstructure:"summaries_dir"`
	TempDir        string `mapstructure:"temp_dir"`
}

type Settings struct {
	DB         DBConfig         `mapstructure:"database"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Server     ServerConfig     `mapstructure:"server"`
	Media      MediaConfig      `mapstructure:"media"`
	ASR        ASRConfig        `mapstructure:"asr"`
	Summarizer SummarizerConfig `mapstructure:"summarizer"`
	Storage    StorageConfig    `mapstructure:"storage"`
	LogFile    string           `mapstructure:"log_file"`
	Env        string           `mapstructure:"env"`
	Debug      bool             `mapstructure:"debug" default:"false"`
}

func Load() (*Settings, error) {
	viper.SetConfigName("config_" + genEnv())
	viper.AddConfigPath(".")
	viper.SetConfigType("yaml")

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var settings Settings
	if err := viper.Unmarshal(&settings); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &settings, nil
}

func genEnv() string {
	env := viper.GetString("ENV")
	if env == "" {
		return "dev"
	}
	return env
}
