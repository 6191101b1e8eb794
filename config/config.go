package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Config holds the application's configuration values.
type Config struct {
	AppName string `json:"appname"`
	AppEnv  string `json:"appenv"`
	AppPort uint16 `json:"appport"`
	GinMode string `json:"ginmode"`
	DBHost  string `json:"dbhost"`
	DBPort  uint16 `json:"dbport"`
	DBName  string `json:"dbname"`
	DBUSER  string `json:"dbuser"`
	DBPass  string `json:"dbpass"`

	JWTSecret string `json:"-"`
	APIToken  string `json:"-"`

	MinioEndpoint  string `json:"minio_endpoint"`
	MinioAccessKey string `json:"-"`
	MinioSecretKey string `json:"-"`
	MinioBucket    string `json:"minio_bucket"`
	MinioUseSSL    bool   `json:"minio_use_ssl"`
	UploadDir      string `json:"upload_dir"`
	UploadMaxBytes int64  `json:"upload_max_bytes"`

	RabbitMQURL       string `json:"-"`
	NotificationQueue string `json:"notification_queue"`

	GeoIPDBPath  string        `json:"geoip_db_path"`
	UserCacheTTL time.Duration `json:"user_cache_ttl"`

	AdminUsername string `json:"-"`
	AdminPassword string `json:"-"`
}

const (
	defaultUploadDir         = "./uploads"
	defaultUploadMaxBytes    = 10 << 20
	defaultNotificationQueue = "sisreg.notifications"
	defaultMinioBucket       = "sisreg"
	defaultUserCacheTTL      = 10 * time.Minute
)

var config *Config
var once sync.Once

// LoadConfig loads the environment variables from a .env file, and returns a singleton Config instance.
// A missing .env file is not an error: the process environment is used as is.
func LoadConfig() *Config {
	once.Do(func() {
		if err := godotenv.Load(); err != nil {
			log.Printf("No .env file loaded, using process environment: %v", err)
		}
		config = fromEnv()
	})
	return config
}

func fromEnv() *Config {
	appPort, _ := strconv.ParseUint(os.Getenv("APPPORT"), 10, 16)
	dbPort, _ := strconv.ParseUint(os.Getenv("DBPORT"), 10, 16)
	useSSL, _ := strconv.ParseBool(os.Getenv("MINIO_USE_SSL"))

	maxBytes, err := strconv.ParseInt(os.Getenv("UPLOAD_MAX_BYTES"), 10, 64)
	if err != nil || maxBytes <= 0 {
		maxBytes = defaultUploadMaxBytes
	}
	cacheTTL, err := time.ParseDuration(os.Getenv("USER_CACHE_TTL"))
	if err != nil || cacheTTL <= 0 {
		cacheTTL = defaultUserCacheTTL
	}

	return &Config{
		AppName: getEnv("APPNAME", "sisreg"),
		AppEnv:  os.Getenv("APPENV"),
		AppPort: uint16(appPort),
		GinMode: os.Getenv("GINMODE"),
		DBHost:  os.Getenv("DBHOST"),
		DBPort:  uint16(dbPort),
		DBName:  os.Getenv("DBNAME"),
		DBUSER:  os.Getenv("DBUSER"),
		DBPass:  os.Getenv("DBPASS"),

		JWTSecret: os.Getenv("JWTSECRET"),
		APIToken:  os.Getenv("APITOKEN"),

		MinioEndpoint:  os.Getenv("MINIO_ENDPOINT"),
		MinioAccessKey: os.Getenv("MINIO_ACCESS_KEY"),
		MinioSecretKey: os.Getenv("MINIO_SECRET_KEY"),
		MinioBucket:    getEnv("MINIO_BUCKET", defaultMinioBucket),
		MinioUseSSL:    useSSL,
		UploadDir:      getEnv("UPLOAD_DIR", defaultUploadDir),
		UploadMaxBytes: maxBytes,

		RabbitMQURL:       os.Getenv("RABBITMQ_URL"),
		NotificationQueue: getEnv("NOTIFICATION_QUEUE", defaultNotificationQueue),

		GeoIPDBPath:  os.Getenv("GEOIP_DB_PATH"),
		UserCacheTTL: cacheTTL,

		AdminUsername: getEnv("ADMIN_USERNAME", "admin"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
	}
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

// IsTestEnv reports whether the process runs with APPENV=test.
func IsTestEnv() bool {
	if os.Getenv("APPENV") == "test" {
		return true
	}
	cfg := LoadConfig()
	return cfg != nil && cfg.AppEnv == "test"
}

// ConnectMySQL establishes a connection to a MySQL database using the configuration values.
// With APPENV=test it opens a shared in-memory SQLite database instead.
func ConnectMySQL() (*gorm.DB, error) {
	if IsTestEnv() {
		dsn := fmt.Sprintf("file:sisreg_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
		db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
		if err != nil {
			return nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
		return db, nil
	}

	cfg := LoadConfig()
	// Build the Data Source Name (DSN) using the configuration values.
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=true&loc=Local", cfg.DBUSER, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	return db, nil
}
