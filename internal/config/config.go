package config

import (
	"os"
	"path"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v2"
)

type Config struct {
	HTTP      HTTP      `yaml:"http"`
	Pg        Pg        `yaml:"pg"`
	Upload    Upload    `yaml:"upload"`
	RateLimit RateLimit `yaml:"rate_limit"`
	Log       Log       `yaml:"log"`
}

type HTTP struct {
	Port           int      `yaml:"port" validate:"min=1,max=65535"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	SecureCookies  bool     `yaml:"secure_cookies"`
}

type Pg struct {
	Host     string `yaml:"host" validate:"required"`
	Port     int    `yaml:"port" validate:"min=1,max=65535"`
	User     string `yaml:"user" validate:"required"`
	Password string `yaml:"password"`
	Dbname   string `yaml:"dbname" validate:"required"`
	SSLMode  string `yaml:"sslmode" validate:"oneof=disable require verify-ca verify-full"`
}

type Upload struct {
	Dir               string   `yaml:"dir" validate:"required"`
	PublicPrefix      string   `yaml:"public_prefix" validate:"required"`
	MaxUploadBytes    int64    `yaml:"max_upload_bytes" validate:"min=1"`
	MaxImageWidth     int      `yaml:"max_image_width" validate:"min=1"`
	MaxImageHeight    int      `yaml:"max_image_height" validate:"min=1"`
	AllowedExtensions []string `yaml:"allowed_extensions" validate:"min=1"`
	AllowedMimeTypes  []string `yaml:"allowed_mime_types" validate:"min=1"`
}

type RateLimit struct {
	MutationsPerMinute float64 `yaml:"mutations_per_minute" validate:"min=1"`
	UploadsPerMinute   float64 `yaml:"uploads_per_minute" validate:"min=1"`
}

type Log struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

// Default returns the configuration used when fields are omitted from the
// yaml file. Values mirror the provisioning defaults of the dashboard.
func Default() Config {
	return Config{
		HTTP: HTTP{
			Port:           8080,
			AllowedOrigins: []string{"http://localhost:8081"},
		},
		Pg: Pg{
			Host:    "localhost",
			Port:    5432,
			User:    "startdash",
			Dbname:  "startdash",
			SSLMode: "disable",
		},
		Upload: Upload{
			Dir:               "static/uploads",
			PublicPrefix:      "/static/uploads/",
			MaxUploadBytes:    10 << 20,
			MaxImageWidth:     4096,
			MaxImageHeight:    4096,
			AllowedExtensions: []string{".png", ".jpg", ".jpeg", ".jfif", ".webp", ".gif"},
			AllowedMimeTypes:  []string{"image/png", "image/jpeg", "image/webp", "image/gif"},
		},
		RateLimit: RateLimit{
			MutationsPerMinute: 60,
			UploadsPerMinute:   10,
		},
		Log: Log{Level: "info"},
	}
}

func mustLoadPath(configPath string, output interface{}) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		panic("can't read config file")
	}
	if err := yaml.Unmarshal(configFile, output); err != nil {
		panic("can't unmarshal config file")
	}
}

// MustLoad reads public.yaml from configFolder on top of defaults and
// validates the result. PG_PASSWORD overrides the yaml value so the
// password can stay out of the file.
func MustLoad(configFolder string) *Config {
	cfg := Default()
	mustLoadPath(path.Join(configFolder, "public.yaml"), &cfg)

	if password := os.Getenv("PG_PASSWORD"); password != "" {
		cfg.Pg.Password = password
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(&cfg); err != nil {
		panic("invalid config: " + err.Error())
	}
	return &cfg
}
