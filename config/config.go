package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config содержит все настройки приложения
type Config struct {
	AppEnv    string          `mapstructure:"app_env"`
	Version   string          `mapstructure:"version"`
	Timezone  string          `mapstructure:"timezone"`
	Log       LogConfig       `mapstructure:"log"`
	Postgres  PostgresConfig  `mapstructure:"postgres"`
	Redis     RedisConfig     `mapstructure:"redis"`
	HTTP      HTTPConfig      `mapstructure:"http"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Weather   WeatherConfig   `mapstructure:"weather"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Mail      MailConfig      `mapstructure:"mail"`
}

// LogConfig содержит настройки логирования
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// PostgresConfig содержит настройки для PostgreSQL
type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

// RedisConfig содержит настройки для Redis
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// HTTPConfig содержит порты HTTP API и служебных серверов
type HTTPConfig struct {
	Port            int           `mapstructure:"port"`
	MetricsPort     int           `mapstructure:"metrics_port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// AuthConfig содержит секрет подписи и время жизни токенов
type AuthConfig struct {
	Secret     string        `mapstructure:"secret"`
	LoginTTL   time.Duration `mapstructure:"login_ttl"`
	ServiceTTL time.Duration `mapstructure:"service_ttl"`
}

// WeatherConfig содержит настройки OpenWeather
type WeatherConfig struct {
	APIKey         string        `mapstructure:"api_key"`
	GeoBaseURL     string        `mapstructure:"geo_base_url"`
	WeatherBaseURL string        `mapstructure:"weather_base_url"`
	DefaultCity    string        `mapstructure:"default_city"`
	Units          string        `mapstructure:"units"`
	Timeout        time.Duration `mapstructure:"timeout"`
}

// SchedulerConfig содержит настройки периодического обновления погоды
type SchedulerConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Spec    string `mapstructure:"spec"`
	BaseURL string `mapstructure:"base_url"`
	Token   string `mapstructure:"token"`
	City    string `mapstructure:"city"`
}

// MailConfig содержит настройки доставки кодов восстановления пароля
type MailConfig struct {
	Transport string      `mapstructure:"transport"`
	From      string      `mapstructure:"from"`
	Subject   string      `mapstructure:"subject"`
	SMTP      SMTPConfig  `mapstructure:"smtp"`
	SES       SESConfig   `mapstructure:"ses"`
	Kafka     KafkaConfig `mapstructure:"kafka"`
}

// SMTPConfig содержит настройки SMTP сервера
type SMTPConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

// SESConfig содержит настройки Amazon SES
type SESConfig struct {
	Region string `mapstructure:"region"`
	Source string `mapstructure:"source"`
}

// KafkaConfig содержит настройки публикации событий восстановления в Kafka
type KafkaConfig struct {
	Brokers  []string `mapstructure:"brokers"`
	Topic    string   `mapstructure:"topic"`
	Username string   `mapstructure:"username"`
	Password string   `mapstructure:"password"`
}

// IsProduction сообщает, запущен ли сервис в production окружении
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.AppEnv, "production")
}

// IsDevelopment сообщает, запущен ли сервис в development окружении
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.AppEnv, "development")
}

// Location возвращает часовой пояс для построения графиков, по умолчанию локальный
func (c *Config) Location() *time.Location {
	if c.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// LoadConfig загружает настройки из файла, .env и переменных окружения
func LoadConfig() (*Config, error) {
	if !strings.EqualFold(os.Getenv("APP_ENV"), "production") {
		// .env необязателен
		_ = godotenv.Load()
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(".")
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	loadFromEnv(v)

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate проверяет обязательные настройки
func (c *Config) Validate() error {
	if c.Auth.Secret == "" {
		return errors.New("auth.secret (JWT_SECRET) is required")
	}
	if c.IsProduction() && c.Auth.Secret == defaultSecret {
		return errors.New("auth.secret must be changed in production")
	}
	switch c.Mail.Transport {
	case "smtp", "ses", "kafka", "log":
	default:
		return errors.New("mail.transport must be one of smtp, ses, kafka, log")
	}
	return nil
}

const defaultSecret = "capybara-dev-secret"

func setDefaults(v *viper.Viper) {
	v.SetDefault("app_env", "development")
	v.SetDefault("version", "1.0.0")
	v.SetDefault("timezone", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// PostgreSQL defaults
	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.username", "postgres")
	v.SetDefault("postgres.password", "postgres")
	v.SetDefault("postgres.dbname", "capybara")
	v.SetDefault("postgres.sslmode", "disable")

	// Redis defaults
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	// HTTP defaults
	v.SetDefault("http.port", 3000)
	v.SetDefault("http.metrics_port", 9090)
	v.SetDefault("http.read_timeout", 15*time.Second)
	v.SetDefault("http.write_timeout", 30*time.Second)
	v.SetDefault("http.shutdown_timeout", 30*time.Second)

	// Auth defaults
	v.SetDefault("auth.secret", defaultSecret)
	v.SetDefault("auth.login_ttl", time.Hour)
	v.SetDefault("auth.service_ttl", 365*24*time.Hour)

	// Weather defaults
	v.SetDefault("weather.geo_base_url", "https://api.openweathermap.org/geo/1.0")
	v.SetDefault("weather.weather_base_url", "https://api.openweathermap.org/data/2.5")
	v.SetDefault("weather.default_city", "Osaka")
	v.SetDefault("weather.units", "metric")
	v.SetDefault("weather.timeout", 10*time.Second)

	// Scheduler defaults
	v.SetDefault("scheduler.enabled", true)
	v.SetDefault("scheduler.spec", "0 */2 * * *")
	v.SetDefault("scheduler.base_url", "http://localhost:3000")
	v.SetDefault("scheduler.city", "Osaka")

	// Mail defaults
	v.SetDefault("mail.transport", "log")
	v.SetDefault("mail.from", "no-reply@capybara.app")
	v.SetDefault("mail.subject", "Reset password OTP")
	v.SetDefault("mail.smtp.port", 587)
	v.SetDefault("mail.ses.region", "us-east-1")
	v.SetDefault("mail.kafka.topic", "password-reset")
}

func loadFromEnv(v *viper.Viper) {
	setString := func(env, key string) {
		if value := os.Getenv(env); value != "" {
			v.Set(key, value)
		}
	}
	setInt := func(env, key string) {
		if value := os.Getenv(env); value != "" {
			if n, err := strconv.Atoi(value); err == nil {
				v.Set(key, n)
			}
		}
	}

	setString("APP_ENV", "app_env")
	setString("TZ_NAME", "timezone")
	setString("LOG_LEVEL", "log.level")
	setString("LOG_FORMAT", "log.format")

	// PostgreSQL from env
	setString("DB_HOST", "postgres.host")
	setInt("DB_PORT", "postgres.port")
	setString("DB_USER", "postgres.username")
	setString("DB_PASSWORD", "postgres.password")
	setString("DB_NAME", "postgres.dbname")
	setString("DB_SSLMODE", "postgres.sslmode")

	// Redis from env
	if redisHost := os.Getenv("REDIS_HOST"); redisHost != "" {
		redisPort := "6379"
		if port := os.Getenv("REDIS_PORT"); port != "" {
			redisPort = port
		}
		v.Set("redis.addr", redisHost+":"+redisPort)
	}
	setString("REDIS_PASSWORD", "redis.password")

	setInt("PORT", "http.port")
	setInt("METRICS_PORT", "http.metrics_port")

	setString("JWT_SECRET", "auth.secret")

	setString("OPENWEATHER_API_KEY", "weather.api_key")
	setString("WEATHER_DEFAULT_CITY", "weather.default_city")

	if enabled := os.Getenv("SCHEDULER_ENABLED"); enabled != "" {
		if b, err := strconv.ParseBool(enabled); err == nil {
			v.Set("scheduler.enabled", b)
		}
	}
	setString("SCHEDULER_BASE_URL", "scheduler.base_url")
	setString("INTERNAL_TOKEN", "scheduler.token")

	setString("MAIL_TRANSPORT", "mail.transport")
	setString("MAIL_FROM", "mail.from")
	setString("SMTP_HOST", "mail.smtp.host")
	setInt("SMTP_PORT", "mail.smtp.port")
	setString("SMTP_USER", "mail.smtp.username")
	setString("SMTP_PASSWORD", "mail.smtp.password")
	setString("AWS_REGION", "mail.ses.region")
	setString("SES_EMAIL", "mail.ses.source")
	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		v.Set("mail.kafka.brokers", strings.Split(brokers, ","))
	}
	setString("KAFKA_TOPIC", "mail.kafka.topic")
	setString("KAFKA_USERNAME", "mail.kafka.username")
	setString("KAFKA_PASSWORD", "mail.kafka.password")
}
