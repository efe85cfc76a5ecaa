package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"shelfkeeper/internal/domain/user"
)

const (
	defaultServerAddress = "localhost:8080"
	defaultEnv           = "local"
	defaultConfigDir     = ".shelfkeeper"
	defaultLocalStore    = StoreSQLite
	defaultRemoteBackend = BackendHTTP
	defaultRedisAddr     = "localhost:6379"
	defaultMongoDatabase = "shelfkeeper"
)

// Бэкенды локального хранилища.
const (
	StoreSQLite = "sqlite"
	StoreRedis  = "redis"
	StoreMemory = "memory"
)

// Бэкенды удаленного хранилища.
const (
	BackendHTTP  = "http"
	BackendMongo = "mongo"
)

type Config struct {
	Env           string `mapstructure:"app_env"`
	LogLevel      string `mapstructure:"log_level"`
	ConfigDir     string `mapstructure:"config_dir"`
	DataPath      string `mapstructure:"data_path"`
	LocalStore    string `mapstructure:"local_store"`
	RedisAddr     string `mapstructure:"redis_addr"`
	RemoteBackend string `mapstructure:"remote_backend"`
	ServerAddress string `mapstructure:"server_address"`
	EnableTLS     bool   `mapstructure:"enable_tls"`
	MongoURI      string `mapstructure:"mongo_uri"`
	MongoDatabase string `mapstructure:"mongo_database"`
	AuthToken     string `mapstructure:"auth_token"`

	BusinessID string `mapstructure:"business_id"`
	UserID     string `mapstructure:"user_id"`
	UserName   string `mapstructure:"user_name"`
	Department string `mapstructure:"department"`
	IsAdmin    bool   `mapstructure:"is_admin"`
	IsManager  bool   `mapstructure:"is_manager"`

	ProbeInterval time.Duration
	SyncDebounce  time.Duration
	MaxAttempts   int `mapstructure:"max_attempts"`
}

// MustLoad загружает конфигурацию клиента
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(fmt.Sprintf("Ошибка конфигурации: %v", err))
	}
	return cfg
}

// Load читает .env и переменные окружения.
func Load() (*Config, error) {
	// Определяем путь к .env файлу (относительно места запуска)
	envPath := ".env"
	if _, err := os.Stat(envPath); os.IsNotExist(err) {
		envPath = "../.env"
	}

	if _, err := os.Stat(envPath); err == nil {
		if err := godotenv.Load(envPath); err != nil {
			fmt.Printf("Ошибка загрузки .env файла: %v\n", err)
		}
	}

	v := viper.New()
	v.AutomaticEnv()

	// Устанавливаем значения по умолчанию
	v.SetDefault("APP_ENV", defaultEnv)
	v.SetDefault("CONFIG_DIR", defaultConfigDir)
	v.SetDefault("LOCAL_STORE", defaultLocalStore)
	v.SetDefault("REDIS_ADDR", defaultRedisAddr)
	v.SetDefault("REMOTE_BACKEND", defaultRemoteBackend)
	v.SetDefault("SERVER_ADDRESS", defaultServerAddress)
	v.SetDefault("ENABLE_TLS", false)
	v.SetDefault("MONGO_DATABASE", defaultMongoDatabase)
	v.SetDefault("PROBE_INTERVAL_SECONDS", 15)
	v.SetDefault("SYNC_DEBOUNCE_MS", 2000)
	v.SetDefault("MAX_ATTEMPTS", 3)

	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}

	configDir := v.GetString("CONFIG_DIR")
	if configDir == defaultConfigDir {
		configDir = filepath.Join(homeDir, configDir)
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		fmt.Printf("Ошибка создания директории конфигурации: %v\n", err)
	}

	dataPath := v.GetString("DATA_PATH")
	if dataPath == "" {
		dataPath = filepath.Join(configDir, "shelfkeeper.db")
	}

	cfg := &Config{
		Env:           v.GetString("APP_ENV"),
		LogLevel:      v.GetString("LOG_LEVEL"),
		ConfigDir:     configDir,
		DataPath:      dataPath,
		LocalStore:    v.GetString("LOCAL_STORE"),
		RedisAddr:     v.GetString("REDIS_ADDR"),
		RemoteBackend: v.GetString("REMOTE_BACKEND"),
		ServerAddress: v.GetString("SERVER_ADDRESS"),
		EnableTLS:     v.GetBool("ENABLE_TLS"),
		MongoURI:      v.GetString("MONGO_URI"),
		MongoDatabase: v.GetString("MONGO_DATABASE"),
		AuthToken:     v.GetString("AUTH_TOKEN"),
		BusinessID:    v.GetString("BUSINESS_ID"),
		UserID:        v.GetString("USER_ID"),
		UserName:      v.GetString("USER_NAME"),
		Department:    v.GetString("DEPARTMENT"),
		IsAdmin:       v.GetBool("IS_ADMIN"),
		IsManager:     v.GetBool("IS_MANAGER"),
		ProbeInterval: time.Duration(v.GetInt("PROBE_INTERVAL_SECONDS")) * time.Second,
		SyncDebounce:  time.Duration(v.GetInt("SYNC_DEBOUNCE_MS")) * time.Millisecond,
		MaxAttempts:   v.GetInt("MAX_ATTEMPTS"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.LocalStore {
	case StoreSQLite, StoreRedis, StoreMemory:
	default:
		return fmt.Errorf("local_store: неизвестное значение %q", c.LocalStore)
	}

	switch c.RemoteBackend {
	case BackendHTTP:
		if c.ServerAddress == "" {
			return fmt.Errorf("server_address не может быть пустым")
		}
	case BackendMongo:
		if c.MongoURI == "" {
			return fmt.Errorf("mongo_uri не может быть пустым")
		}
	default:
		return fmt.Errorf("remote_backend: неизвестное значение %q", c.RemoteBackend)
	}

	if c.ProbeInterval <= 0 {
		return fmt.Errorf("probe_interval_seconds должен быть положительным")
	}
	if c.SyncDebounce < 0 {
		return fmt.Errorf("sync_debounce_ms не может быть отрицательным")
	}
	return nil
}

// Actor собирает набор возможностей текущего пользователя из конфигурации.
func (c *Config) Actor() user.Actor {
	return user.Actor{
		UserID:      c.UserID,
		DisplayName: c.UserName,
		Department:  c.Department,
		BusinessID:  c.BusinessID,
		IsAdmin:     c.IsAdmin,
		IsManager:   c.IsManager,
	}
}

// IsProd проверяет, prod ли окружение
func (c *Config) IsProd() bool {
	return c.Env == "prod"
}

// IsDev проверяет, dev ли окружение
func (c *Config) IsDev() bool {
	return c.Env == "dev"
}

// IsLocal проверяет, local ли окружение
func (c *Config) IsLocal() bool {
	return c.Env == "local" || c.Env == ""
}
