package config

import (
	"errors"
	"time"
)

// Config application configuration root
type Config struct {
	Server ServerConfig `mapstructure:"server"`
	AI     AIConfig     `mapstructure:"ai"`
	TTS    TTSConfig    `mapstructure:"tts"`
	Image  ImageConfig  `mapstructure:"image"`
	Log    LogConfig    `mapstructure:"log"`
	Store  StoreConfig  `mapstructure:"store"`
}

// ServerConfig HTTP server configuration
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	Mode         string        `mapstructure:"mode"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// AIConfig generative text configuration
type AIConfig struct {
	Provider string          `mapstructure:"provider"`
	APIKey   string          `mapstructure:"api_key"`
	Model    string          `mapstructure:"model"`
	BaseURL  string          `mapstructure:"base_url"`
	Options  AIOptionsConfig `mapstructure:"options"`
}

// AIOptionsConfig model sampling parameters
type AIOptionsConfig struct {
	Temperature float64 `mapstructure:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens"`
	TopP        float64 `mapstructure:"top_p"`
}

// TTSConfig speech synthesis configuration
type TTSConfig struct {
	APIURL      string `mapstructure:"api_url"`
	AccessToken string `mapstructure:"access_token"`
	Voice       string `mapstructure:"voice"`
	SampleRate  int    `mapstructure:"sample_rate"` // mono PCM16 output rate
	MaxRunes    int    `mapstructure:"max_runes"`   // narrated prefix cap
}

// ImageConfig image generation configuration
type ImageConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
	Model   string `mapstructure:"model"`
	Size    string `mapstructure:"size"` // portrait hint for covers/scenes
}

// LogConfig zerolog configuration
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Output     string `mapstructure:"output"`
	FilePath   string `mapstructure:"file_path"`
	TimeFormat string `mapstructure:"time_format"`
}

// StoreConfig durable record store configuration
type StoreConfig struct {
	Type  string           `mapstructure:"type"` // file, redis
	File  *FileStoreConfig `mapstructure:"file,omitempty"`
	Redis *RedisConfig     `mapstructure:"redis,omitempty"`
}

// FileStoreConfig local file-backed record store
type FileStoreConfig struct {
	Dir string `mapstructure:"dir"`
}

// RedisConfig redis-backed record store
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Validate checks configuration consistency
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return errors.New("invalid server port")
	}

	validModes := map[string]bool{"debug": true, "release": true, "test": true}
	if !validModes[c.Server.Mode] {
		return errors.New("invalid server mode, must be debug/release/test")
	}

	switch c.Store.Type {
	case "", "file", "redis":
	default:
		return errors.New("invalid store type, must be file/redis")
	}

	return nil
}
