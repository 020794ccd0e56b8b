package config

import (
	"os"
	"path"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

type Config struct {
	Public  Public
	Private Private
}

type Public struct {
	Addr                string        `yaml:"addr"`
	LogLevel            string        `yaml:"log_level"`
	LogJSON             bool          `yaml:"log_json"`
	SecureCookies       bool          `yaml:"secure_cookies"`
	CORSAllowedOrigins  []string      `yaml:"cors_allowed_origins"`
	JwtTTL              time.Duration `yaml:"jwt_ttl"`
	ConfirmationCodeLen int           `yaml:"confirmation_code_len"`
	TenantId            int64         `yaml:"tenant_id"`

	// Messaging
	DailyMessageLimit int `yaml:"daily_message_limit"` // rolling 24h cap per sender

	// Research updates
	MaxUpdateImages        int      `yaml:"max_update_images"`
	MediaDir               string   `yaml:"media_dir"`
	MaxTotalAttachmentSize int64    `yaml:"max_total_attachment_size"`
	AllowedImageMimeTypes  []string `yaml:"allowed_image_mime_types"`
	AllowedFileMimeTypes   []string `yaml:"allowed_file_mime_types"`
}

type Private struct {
	JwtKey string `yaml:"jwt_key"`
	Pg     Pg     `yaml:"pg"`
	Email  Email  `yaml:"email"`
}

type Pg struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Dbname   string `yaml:"dbname"`
}

type Email struct {
	SMTPServer string `yaml:"smtp_server"`
	SMTPPort   int    `yaml:"smtp_port"`
	Username   string `yaml:"username"`
	Password   string `yaml:"password"`
	SenderName string `yaml:"sender_name"`
	Timeout    int    `yaml:"timeout"` // seconds
}

func (c *Config) JwtKey() string {
	return c.Private.JwtKey
}

func (c *Config) JwtTTL() time.Duration {
	return c.Public.JwtTTL
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

func MustLoad(configFolder string) *Config {
	// .env is optional, used for local development secrets
	_ = godotenv.Load()

	var public Public
	mustLoadPath(path.Join(configFolder, "public.yaml"), &public)

	var private Private
	mustLoadPath(path.Join(configFolder, "private.yaml"), &private)

	applyEnvOverrides(&private)
	applyDefaults(&public)

	return &Config{public, private}
}

// Secrets from the environment win over the yaml values so private.yaml
// can be committed with placeholders.
func applyEnvOverrides(private *Private) {
	if v := os.Getenv("FIELDNOTES_JWT_KEY"); v != "" {
		private.JwtKey = v
	}
	if v := os.Getenv("FIELDNOTES_PG_PASSWORD"); v != "" {
		private.Pg.Password = v
	}
	if v := os.Getenv("FIELDNOTES_SMTP_PASSWORD"); v != "" {
		private.Email.Password = v
	}
}

func applyDefaults(public *Public) {
	if public.Addr == "" {
		public.Addr = ":8080"
	}
	if public.DailyMessageLimit == 0 {
		public.DailyMessageLimit = 20
	}
	if public.MaxUpdateImages == 0 {
		public.MaxUpdateImages = 10
	}
	if public.ConfirmationCodeLen == 0 {
		public.ConfirmationCodeLen = 8
	}
	if public.MaxTotalAttachmentSize == 0 {
		public.MaxTotalAttachmentSize = 50 << 20
	}
	if public.MediaDir == "" {
		public.MediaDir = "media"
	}
	if public.TenantId == 0 {
		public.TenantId = 1
	}
}
