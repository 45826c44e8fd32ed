package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
	Gemini   GeminiConfig   `yaml:"gemini"`
	Database DatabaseConfig `yaml:"database"`
	Analysis AnalysisConfig `yaml:"analysis"`
	Auth     AuthConfig     `yaml:"auth"`
	Users    []User         `yaml:"users"`
}

type ServerConfig struct {
	Port        int    `yaml:"port"`
	AllowOrigin string `yaml:"allow_origin"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type GeminiConfig struct {
	APIKey     string `yaml:"api_key"`
	Model      string `yaml:"model"`
	FlashModel string `yaml:"flash_model"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type AnalysisConfig struct {
	Workers   int `yaml:"workers"`
	QueueSize int `yaml:"queue_size"`
}

type AuthConfig struct {
	JWTSecret        string `yaml:"jwt_secret"`
	TokenExpireHours int    `yaml:"token_expire_hours"`
}

type User struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// Load reads the yaml config at path, then applies environment overrides.
// A missing config file is not an error: the service can run on defaults
// plus environment alone.
func Load(path string) (*Config, error) {
	// .env is optional; real environment variables win over it.
	_ = godotenv.Load()

	var cfg Config
	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, err
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	applyEnv(&cfg)
	applyDefaults(&cfg)
	return &cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("GOOGLE_API_KEY"); v != "" {
		cfg.Gemini.APIKey = v
	}
	if v := os.Getenv("GEMINI_MODEL"); v != "" {
		cfg.Gemini.Model = v
	}
	if v := os.Getenv("GEMINI_FLASH_MODEL"); v != "" {
		cfg.Gemini.FlashModel = v
	}
	if v := os.Getenv("DATABASE_PATH"); v != "" {
		cfg.Database.Path = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.AllowOrigin == "" {
		cfg.Server.AllowOrigin = "http://localhost:3000"
	}
	if cfg.Gemini.Model == "" {
		cfg.Gemini.Model = "gemini-1.5-pro-latest"
	}
	if cfg.Gemini.FlashModel == "" {
		cfg.Gemini.FlashModel = "gemini-1.5-flash-latest"
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "mech_mentor.db"
	}
	if cfg.Analysis.Workers == 0 {
		cfg.Analysis.Workers = 4
	}
	if cfg.Analysis.QueueSize == 0 {
		cfg.Analysis.QueueSize = 64
	}
	if cfg.Auth.TokenExpireHours == 0 {
		cfg.Auth.TokenExpireHours = 24
	}
}

// AuthEnabled reports whether the optional JWT auth layer is configured.
func (c *Config) AuthEnabled() bool {
	return c.Auth.JWTSecret != "" && len(c.Users) > 0
}

// FindUser finds a user by username
func (c *Config) FindUser(username string) *User {
	for i := range c.Users {
		if c.Users[i].Username == username {
			return &c.Users[i]
		}
	}
	return nil
}
