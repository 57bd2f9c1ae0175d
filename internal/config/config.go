package config

import (
	"errors"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	HTTP    HTTPConfig    `mapstructure:"http"`
	Mongo   MongoConfig   `mapstructure:"mongo"`
	Redis   RedisConfig   `mapstructure:"redis"`
	NATS    NATSConfig    `mapstructure:"nats"`
	MinIO   MinIOConfig   `mapstructure:"minio"`
	SMTP    SMTPConfig    `mapstructure:"smtp"`
	Auth    AuthConfig    `mapstructure:"auth"`
	Media   MediaConfig   `mapstructure:"media"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Logger  LoggerConfig  `mapstructure:"logger"`
}

type LoggerConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type HTTPConfig struct {
	Port            string        `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	// SecureCookies must be on behind TLS; off only for local development.
	SecureCookies bool `mapstructure:"secure_cookies"`
}

type MongoConfig struct {
	URI            string        `mapstructure:"uri"`
	Database       string        `mapstructure:"database"`
	Username       string        `mapstructure:"username"`
	Password       string        `mapstructure:"password"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
	MinPoolSize    uint64        `mapstructure:"min_pool_size"`
	MaxPoolSize    uint64        `mapstructure:"max_pool_size"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type NATSConfig struct {
	URL            string        `mapstructure:"url"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
}

type MinIOConfig struct {
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Bucket    string `mapstructure:"bucket"`
	UseSSL    bool   `mapstructure:"use_ssl"`
}

type SMTPConfig struct {
	Host        string `mapstructure:"host"`
	Port        int    `mapstructure:"port"`
	Username    string `mapstructure:"username"`
	Password    string `mapstructure:"password"`
	SenderEmail string `mapstructure:"sender_email"`
	// SMSGatewayDomain is the carrier's mail-to-SMS domain, e.g. "sms.gateway.ma".
	// A provider with phone 0612345678 is reached at 0612345678@<domain>.
	SMSGatewayDomain string `mapstructure:"sms_gateway_domain"`
}

type AuthConfig struct {
	// SessionSecret signs nothing by itself; sessions are random ids stored
	// server-side, but the secret is still required to HMAC the cookie value.
	SessionSecret string        `mapstructure:"session_secret"`
	SessionTTL    time.Duration `mapstructure:"session_ttl"`
	// IdentitySecret verifies the HS256 assertion forwarded by the identity
	// provider callback.
	IdentitySecret string `mapstructure:"identity_secret"`
	// Static credential pairs for the back office.
	AdminEmail         string `mapstructure:"admin_email"`
	AdminPasswordHash  string `mapstructure:"admin_password_hash"`
	AuthorEmail        string `mapstructure:"author_email"`
	AuthorPasswordHash string `mapstructure:"author_password_hash"`
}

type MediaConfig struct {
	// MaxFileSize is the per-file upload ceiling in bytes.
	MaxFileSize int64 `mapstructure:"max_file_size"`
	// MaxEdge is the longest allowed image dimension after downscale.
	MaxEdge int `mapstructure:"max_edge"`
	// JPEGQuality is the re-encode quality applied to every accepted image.
	JPEGQuality int `mapstructure:"jpeg_quality"`
}

type MetricsConfig struct {
	Port string `mapstructure:"port"`
}

func Load(path string) (*Config, error) {
	// .env is optional; environment variables win either way.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	viper.SetDefault("http.port", "8080")
	viper.SetDefault("http.read_timeout", "15s")
	viper.SetDefault("http.write_timeout", "30s")
	viper.SetDefault("http.shutdown_timeout", "10s")

	viper.SetDefault("mongo.uri", "mongodb://localhost:27017")
	viper.SetDefault("mongo.database", "dresseur")
	viper.SetDefault("mongo.connect_timeout", "10s")
	viper.SetDefault("mongo.min_pool_size", 0)
	viper.SetDefault("mongo.max_pool_size", 100)

	viper.SetDefault("redis.address", "localhost:6379")
	viper.SetDefault("redis.db", 0)

	viper.SetDefault("nats.url", "nats://localhost:4222")
	viper.SetDefault("nats.connect_timeout", "5s")

	viper.SetDefault("minio.endpoint", "localhost:9000")
	viper.SetDefault("minio.access_key", "minioadmin")
	viper.SetDefault("minio.secret_key", "minioadmin")
	viper.SetDefault("minio.bucket", "listing-media")
	viper.SetDefault("minio.use_ssl", false)

	viper.SetDefault("smtp.host", "smtp.gmail.com")
	viper.SetDefault("smtp.port", 587)

	viper.SetDefault("auth.session_ttl", "336h") // 14 days

	viper.SetDefault("media.max_file_size", 5*1024*1024)
	viper.SetDefault("media.max_edge", 1600)
	viper.SetDefault("media.jpeg_quality", 80)

	viper.SetDefault("metrics.port", "9090")

	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.format", "json")

	if path != "" {
		if fi, err := os.Stat(path); err == nil && !fi.IsDir() {
			viper.SetConfigFile(path)
		} else {
			viper.AddConfigPath(path)
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("DRESSEUR")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Println("Config file not found; using defaults and environment variables")
		} else {
			return nil, err
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// validate fails fast on the settings the process cannot run without.
// Everything else is allowed to fail on first use.
func (c *Config) validate() error {
	if c.Auth.SessionSecret == "" {
		return errors.New("config: auth.session_secret is required")
	}
	if c.Auth.IdentitySecret == "" {
		return errors.New("config: auth.identity_secret is required")
	}
	if c.Mongo.URI == "" {
		return errors.New("config: mongo.uri is required")
	}
	return nil
}
