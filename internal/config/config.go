package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"github.com/andresuchdata/stockflow/internal/replenishment"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	App        AppConfig
	Cache      CacheConfig
	Storage    StorageConfig
	Drive      DriveConfig
	Simulation SimulationConfig
}

type ServerConfig struct {
	Port           string
	Mode           string
	ReadTimeout    int
	WriteTimeout   int
	AllowedOrigins []string
	LogLevel       string
	LogFormat      string
}

type DatabaseConfig struct {
	// Backend is "postgres" or "memory"; memory keeps everything in process.
	Backend  string
	URL      string
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
	// MaxConcurrentTx bounds the transactions running at once.
	MaxConcurrentTx int64
}

// DSN returns the lib/pq keyword connection string.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// ConnURL returns DATABASE_URL when set, otherwise a postgres:// URL built
// from the individual fields.
func (c DatabaseConfig) ConnURL() string {
	if c.URL != "" {
		return c.URL
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     c.Host + ":" + c.Port,
		Path:     "/" + c.DBName,
		RawQuery: "sslmode=" + c.SSLMode,
	}
	return u.String()
}

type AppConfig struct {
	DataDir     string
	OutputDir   string
	CatalogFile string
	// Purchase-note header
	CompanyName     string
	SupplierName    string
	SupplierAddress string
}

type CacheConfig struct {
	Enabled             bool
	RedisURL            string
	RedisHost           string
	RedisPort           string
	RedisPassword       string
	RedisDB             int
	MaterialsTTLSeconds  int
	SimulationTTLSeconds int
}

// MaterialsTTL is the lifetime of cached material quantities.
func (c CacheConfig) MaterialsTTL() time.Duration {
	return time.Duration(c.MaterialsTTLSeconds) * time.Second
}

// SimulationTTL is the lifetime of cached dry-run results.
func (c CacheConfig) SimulationTTL() time.Duration {
	return time.Duration(c.SimulationTTLSeconds) * time.Second
}

// StorageConfig locates the bucket purchase notes go to. Driver is "minio",
// "s3" or "local".
type StorageConfig struct {
	Enabled   bool
	Driver    string
	LocalDir  string
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	UseSSL    bool
	Prefix    string
}

// DriveConfig points at the Google Drive folder order files are pulled from.
type DriveConfig struct {
	CredentialsFile string
	FolderID        string
}

type SimulationConfig struct {
	AnnualDemand      float64
	OrderCost         float64
	HoldingCost       float64
	LeadTimeDays      int
	SafetyStock       float64
	ConsumptionPolicy string
	TraceLevel        string
	Drain             bool
	InitialStock      float64
}

// Policy returns the replenishment constants of the section.
func (c SimulationConfig) Policy() replenishment.Policy {
	return replenishment.Policy{
		AnnualDemand: c.AnnualDemand,
		OrderCost:    c.OrderCost,
		HoldingCost:  c.HoldingCost,
		LeadTimeDays: c.LeadTimeDays,
		SafetyStock:  c.SafetyStock,
	}
}

var (
	once     sync.Once
	instance *Config
)

// SetDefaults registers every default on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SERVER_MODE", "debug")
	v.SetDefault("SERVER_READ_TIMEOUT", 15)
	v.SetDefault("SERVER_WRITE_TIMEOUT", 30)
	v.SetDefault("SERVER_ALLOWED_ORIGINS", []string{"*"})
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")

	v.SetDefault("DB_BACKEND", "postgres")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "stockflow")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_CONCURRENT_TX", 10)

	v.SetDefault("APP_DATA_DIR", "./data/orders")
	v.SetDefault("APP_OUTPUT_DIR", "./data/output")
	v.SetDefault("APP_CATALOG_FILE", "")
	v.SetDefault("APP_COMPANY_NAME", "Stockflow Atelier")
	v.SetDefault("APP_SUPPLIER_NAME", "Raw Materials Supplier")
	v.SetDefault("APP_SUPPLIER_ADDRESS", "")

	v.SetDefault("CACHE_ENABLED", false)
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("REDIS_HOST", "127.0.0.1")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("CACHE_MATERIALS_TTL_SECONDS", 30)
	v.SetDefault("CACHE_SIMULATION_TTL_SECONDS", 600)

	v.SetDefault("STORAGE_ENABLED", false)
	v.SetDefault("STORAGE_DRIVER", "minio")
	v.SetDefault("STORAGE_LOCAL_DIR", "./data/objects")
	v.SetDefault("STORAGE_ENDPOINT", "localhost:9000")
	v.SetDefault("STORAGE_ACCESS_KEY", "")
	v.SetDefault("STORAGE_SECRET_KEY", "")
	v.SetDefault("STORAGE_BUCKET", "purchase-notes")
	v.SetDefault("STORAGE_REGION", "us-east-1")
	v.SetDefault("STORAGE_USE_SSL", false)
	v.SetDefault("STORAGE_PREFIX", "notes")

	v.SetDefault("GOOGLE_CREDENTIALS_FILE", "")
	v.SetDefault("DRIVE_FOLDER_ID", "")

	defaults := replenishment.DefaultPolicy()
	v.SetDefault("ANNUAL_DEMAND", defaults.AnnualDemand)
	v.SetDefault("ORDER_COST", defaults.OrderCost)
	v.SetDefault("HOLDING_COST", defaults.HoldingCost)
	v.SetDefault("LEAD_TIME_DAYS", defaults.LeadTimeDays)
	v.SetDefault("SAFETY_STOCK", defaults.SafetyStock)
	v.SetDefault("CONSUMPTION_POLICY", "aggregate")
	v.SetDefault("TRACE_LEVEL", "days")
	v.SetDefault("DRAIN", false)
	v.SetDefault("INITIAL_STOCK", 2200)
}

// FromViper builds a Config from v without touching the filesystem.
func FromViper(v *viper.Viper) *Config {
	return &Config{
		Server: ServerConfig{
			Port:           v.GetString("SERVER_PORT"),
			Mode:           v.GetString("SERVER_MODE"),
			ReadTimeout:    v.GetInt("SERVER_READ_TIMEOUT"),
			WriteTimeout:   v.GetInt("SERVER_WRITE_TIMEOUT"),
			AllowedOrigins: splitOrigins(v.GetStringSlice("SERVER_ALLOWED_ORIGINS")),
			LogLevel:       v.GetString("LOG_LEVEL"),
			LogFormat:      v.GetString("LOG_FORMAT"),
		},
		Database: DatabaseConfig{
			Backend:         v.GetString("DB_BACKEND"),
			URL:             v.GetString("DATABASE_URL"),
			Host:            v.GetString("DB_HOST"),
			Port:            v.GetString("DB_PORT"),
			User:            v.GetString("DB_USER"),
			Password:        v.GetString("DB_PASSWORD"),
			DBName:          v.GetString("DB_NAME"),
			SSLMode:         v.GetString("DB_SSLMODE"),
			MaxConcurrentTx: v.GetInt64("DB_MAX_CONCURRENT_TX"),
		},
		App: AppConfig{
			DataDir:         v.GetString("APP_DATA_DIR"),
			OutputDir:       v.GetString("APP_OUTPUT_DIR"),
			CatalogFile:     v.GetString("APP_CATALOG_FILE"),
			CompanyName:     v.GetString("APP_COMPANY_NAME"),
			SupplierName:    v.GetString("APP_SUPPLIER_NAME"),
			SupplierAddress: v.GetString("APP_SUPPLIER_ADDRESS"),
		},
		Cache: CacheConfig{
			Enabled:             v.GetBool("CACHE_ENABLED"),
			RedisURL:            v.GetString("REDIS_URL"),
			RedisHost:           v.GetString("REDIS_HOST"),
			RedisPort:           v.GetString("REDIS_PORT"),
			RedisPassword:       v.GetString("REDIS_PASSWORD"),
			RedisDB:             v.GetInt("REDIS_DB"),
			MaterialsTTLSeconds:  v.GetInt("CACHE_MATERIALS_TTL_SECONDS"),
			SimulationTTLSeconds: v.GetInt("CACHE_SIMULATION_TTL_SECONDS"),
		},
		Storage: StorageConfig{
			Enabled:   v.GetBool("STORAGE_ENABLED"),
			Driver:    v.GetString("STORAGE_DRIVER"),
			LocalDir:  v.GetString("STORAGE_LOCAL_DIR"),
			Endpoint:  v.GetString("STORAGE_ENDPOINT"),
			AccessKey: v.GetString("STORAGE_ACCESS_KEY"),
			SecretKey: v.GetString("STORAGE_SECRET_KEY"),
			Bucket:    v.GetString("STORAGE_BUCKET"),
			Region:    v.GetString("STORAGE_REGION"),
			UseSSL:    v.GetBool("STORAGE_USE_SSL"),
			Prefix:    v.GetString("STORAGE_PREFIX"),
		},
		Drive: DriveConfig{
			CredentialsFile: v.GetString("GOOGLE_CREDENTIALS_FILE"),
			FolderID:        v.GetString("DRIVE_FOLDER_ID"),
		},
		Simulation: SimulationConfig{
			AnnualDemand:      v.GetFloat64("ANNUAL_DEMAND"),
			OrderCost:         v.GetFloat64("ORDER_COST"),
			HoldingCost:       v.GetFloat64("HOLDING_COST"),
			LeadTimeDays:      v.GetInt("LEAD_TIME_DAYS"),
			SafetyStock:       v.GetFloat64("SAFETY_STOCK"),
			ConsumptionPolicy: v.GetString("CONSUMPTION_POLICY"),
			TraceLevel:        v.GetString("TRACE_LEVEL"),
			Drain:             v.GetBool("DRAIN"),
			InitialStock:      v.GetFloat64("INITIAL_STOCK"),
		},
	}
}

// splitOrigins accepts both a list and a single comma-separated env value.
func splitOrigins(in []string) []string {
	var out []string
	for _, item := range in {
		for _, o := range strings.Split(item, ",") {
			if o = strings.TrimSpace(o); o != "" {
				out = append(out, o)
			}
		}
	}
	return out
}

// Load reads .env and the environment once and returns the shared config.
func Load() *Config {
	once.Do(func() {
		// Load .env file if it exists
		_ = godotenv.Load()

		SetDefaults(viper.GetViper())

		// Read from environment variables
		viper.AutomaticEnv()

		ensureDir(viper.GetString("APP_OUTPUT_DIR"))

		instance = FromViper(viper.GetViper())
	})

	return instance
}

func ensureDir(dir string) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Fatal().Err(err).Str("dir", dir).Msg("failed to create directory")
		}
	}
}
