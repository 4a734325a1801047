package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	DB        DBConfig
	Server    ServerConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Logger    LoggerConfig
	Attempt   AttemptConfig
	Import    ImportConfig
	Stats     StatsConfig
	RateLimit RateLimitConfig
	CORS      CORSConfig
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type DBConfig struct {
	// Driver is "oracle" (go-ora, default) or "godror".
	Driver       string
	Host         string
	Port         int
	User         string
	Password     string
	DBName       string
	MaxOpenConns int
	MaxIdleConns int
}

type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	BodyLimit    int
}

type JWTConfig struct {
	SecretKey string
	AccessTTL time.Duration
	Issuer    string
}

type LoggerConfig struct {
	Env   string
	Level string
	// File enables a rotating JSON log file next to stdout when set.
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

type AttemptConfig struct {
	// SubmitGrace is added to an attempt deadline before a submission counts as late.
	SubmitGrace time.Duration
	// OrderCacheTTL is added to the test duration when caching the presented question order.
	OrderCacheTTL time.Duration
}

type ImportConfig struct {
	MaxRows        int
	SkipDuplicates bool
	CreateMissing  bool
}

type StatsConfig struct {
	CacheTTL time.Duration
}

type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
}

type CORSConfig struct {
	AllowOrigins string
}

func setDefaults() {
	viper.SetDefault("db.driver", "oracle")
	viper.SetDefault("db.max_open_conns", 20)
	viper.SetDefault("db.max_idle_conns", 5)
	viper.SetDefault("server.port", 8090)
	viper.SetDefault("server.read_timeout", 20)
	viper.SetDefault("server.write_timeout", 20)
	viper.SetDefault("server.body_limit", 10*1024*1024)
	viper.SetDefault("jwt.access_ttl", "1h")
	viper.SetDefault("jwt.issuer", "crew-exam")
	viper.SetDefault("logger.env", "development")
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.max_size_mb", 100)
	viper.SetDefault("logger.max_backups", 5)
	viper.SetDefault("logger.max_age_days", 30)
	viper.SetDefault("attempt.submit_grace", "2m")
	viper.SetDefault("attempt.order_cache_ttl", "30m")
	viper.SetDefault("import.max_rows", 5000)
	viper.SetDefault("import.skip_duplicates", true)
	viper.SetDefault("import.create_missing", true)
	viper.SetDefault("stats.cache_ttl", "5m")
	viper.SetDefault("rate_limit.rps", 20)
	viper.SetDefault("rate_limit.burst", 40)
	viper.SetDefault("cors.allow_origins", "*")
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	// Add config paths based on environment
	if os.Getenv("ENV") == "test" {
		viper.AddConfigPath("../../config")
		viper.AddConfigPath("../../")
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("./config")
	}

	setDefaults()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	configFile := viper.ConfigFileUsed()
	if configFile != "" {
		absPath, _ := filepath.Abs(configFile)
		fmt.Printf("Using config file: %s\n", absPath)
	}

	config := &Config{
		DB: DBConfig{
			Driver:       viper.GetString("db.driver"),
			Host:         viper.GetString("db.host"),
			Port:         viper.GetInt("db.port"),
			User:         viper.GetString("db.user"),
			Password:     viper.GetString("db.password"),
			DBName:       viper.GetString("db.name"),
			MaxOpenConns: viper.GetInt("db.max_open_conns"),
			MaxIdleConns: viper.GetInt("db.max_idle_conns"),
		},
		Server: ServerConfig{
			Port:         viper.GetInt("server.port"),
			ReadTimeout:  viper.GetDuration("server.read_timeout") * time.Second,
			WriteTimeout: viper.GetDuration("server.write_timeout") * time.Second,
			BodyLimit:    viper.GetInt("server.body_limit"),
		},
		Redis: RedisConfig{
			Address:  viper.GetString("redis.address"),
			Password: viper.GetString("redis.password"),
			DB:       viper.GetInt("redis.db"),
		},
		JWT: JWTConfig{
			SecretKey: viper.GetString("jwt.secret_key"),
			AccessTTL: viper.GetDuration("jwt.access_ttl"),
			Issuer:    viper.GetString("jwt.issuer"),
		},
		Logger: LoggerConfig{
			Env:        viper.GetString("logger.env"),
			Level:      viper.GetString("logger.level"),
			File:       viper.GetString("logger.file"),
			MaxSizeMB:  viper.GetInt("logger.max_size_mb"),
			MaxBackups: viper.GetInt("logger.max_backups"),
			MaxAgeDays: viper.GetInt("logger.max_age_days"),
		},
		Attempt: AttemptConfig{
			SubmitGrace:   viper.GetDuration("attempt.submit_grace"),
			OrderCacheTTL: viper.GetDuration("attempt.order_cache_ttl"),
		},
		Import: ImportConfig{
			MaxRows:        viper.GetInt("import.max_rows"),
			SkipDuplicates: viper.GetBool("import.skip_duplicates"),
			CreateMissing:  viper.GetBool("import.create_missing"),
		},
		Stats: StatsConfig{
			CacheTTL: viper.GetDuration("stats.cache_ttl"),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: viper.GetFloat64("rate_limit.rps"),
			Burst:             viper.GetInt("rate_limit.burst"),
		},
		CORS: CORSConfig{
			AllowOrigins: viper.GetString("cors.allow_origins"),
		},
	}

	// Override with environment variables if set
	if host := os.Getenv("DB_HOST"); host != "" {
		config.DB.Host = host
	}
	if user := os.Getenv("DB_USER"); user != "" {
		config.DB.User = user
	}
	if password := os.Getenv("DB_PASSWORD"); password != "" {
		config.DB.Password = password
	}
	if dbname := os.Getenv("DB_NAME"); dbname != "" {
		config.DB.DBName = dbname
	}
	if redisAddress := os.Getenv("REDIS_ADDRESS"); redisAddress != "" {
		config.Redis.Address = redisAddress
	}
	if redisPassword := os.Getenv("REDIS_PASSWORD"); redisPassword != "" {
		config.Redis.Password = redisPassword
	}
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		config.JWT.SecretKey = secret
	}

	return config, nil
}

// GetDSN returns the connection string for the configured driver.
func (c *Config) GetDSN() string {
	if c.DB.Driver == "godror" {
		// godror uses the easy-connect form: user="..." password="..." connectString="host:port/service"
		return fmt.Sprintf(`user="%s" password="%s" connectString="%s:%d/%s"`,
			c.DB.User,
			c.DB.Password,
			c.DB.Host,
			c.DB.Port,
			c.DB.DBName,
		)
	}
	return fmt.Sprintf("oracle://%s:%s@%s:%d/%s",
		url.PathEscape(c.DB.User),
		url.PathEscape(c.DB.Password),
		c.DB.Host,
		c.DB.Port,
		c.DB.DBName,
	)
}
