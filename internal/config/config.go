package config

import (
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds configuration for all three services, loaded from environment
// variables. Each binary reads only the fields it needs.
type Config struct {
	Port      string
	LogLevel  string
	LogPretty bool

	PostgresDSN string
	MongoURI    string
	MongoDB     string

	RedisAddr     string
	RedisPassword string

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool

	SongsDataFile      string
	PicturesDataFile   string
	PicturesSeedObject string
	ConcertsFile       string

	SongsURL        string
	PicturesURL     string
	UpstreamTimeout time.Duration

	SecureCookies  bool
	TrustedOrigins []string
}

// Load reads an optional .env file and then the process environment.
func Load() *Config {
	// A missing .env is the normal case in containers.
	_ = godotenv.Load()

	return &Config{
		Port:      getenv("PORT", ""),
		LogLevel:  getenv("LOG_LEVEL", "info"),
		LogPretty: getbool("LOG_PRETTY", false),

		PostgresDSN: getenv("POSTGRES_DSN", postgresDSN()),
		MongoURI:    getenv("MONGO_URI", mongoURI()),
		MongoDB:     getenv("MONGODB_DATABASE", "songs"),

		RedisAddr:     getenv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getenv("REDIS_PASSWORD", ""),

		MinioEndpoint:  getenv("MINIO_ENDPOINT", ""),
		MinioAccessKey: getenv("MINIO_ACCESS_KEY", ""),
		MinioSecretKey: getenv("MINIO_SECRET_KEY", ""),
		MinioBucket:    getenv("MINIO_BUCKET", "pictures"),
		MinioUseSSL:    getbool("MINIO_USE_SSL", false),

		SongsDataFile:      getenv("SONGS_DATA_FILE", ""),
		PicturesDataFile:   getenv("PICTURES_DATA_FILE", ""),
		PicturesSeedObject: getenv("PICTURES_SEED_OBJECT", ""),
		ConcertsFile:       getenv("CONCERTS_FILE", ""),

		SongsURL:        getenv("SONGS_URL", "http://songs:8000"),
		PicturesURL:     getenv("PICTURES_URL", "http://pictures:3000"),
		UpstreamTimeout: getduration("UPSTREAM_TIMEOUT", 10*time.Second),

		SecureCookies:  getbool("SESSION_COOKIE_SECURE", false),
		TrustedOrigins: getlist("TRUSTED_ORIGINS"),
	}
}

// Addr returns the listen address, using defaultPort when PORT is unset.
func (c *Config) Addr(defaultPort string) string {
	if c.Port != "" {
		return ":" + c.Port
	}
	return ":" + defaultPort
}

// MinioEnabled reports whether an object store endpoint is configured.
func (c *Config) MinioEnabled() bool {
	return c.MinioEndpoint != ""
}

func postgresDSN() string {
	u := url.URL{
		Scheme:   "postgres",
		Host:     getenv("POSTGRES_HOST", "localhost") + ":" + getenv("POSTGRES_PORT", "5432"),
		Path:     "/" + getenv("POSTGRES_DB", "capstone"),
		RawQuery: url.Values{"sslmode": {getenv("POSTGRES_SSLMODE", "disable")}}.Encode(),
	}
	u.User = userinfo(getenv("POSTGRES_USER", "postgres"), os.Getenv("POSTGRES_PASSWORD"))
	return u.String()
}

func mongoURI() string {
	host := getenv("MONGODB_SERVICE", "localhost") + ":" + getenv("MONGODB_PORT", "27017")
	u := url.URL{Scheme: "mongodb", Host: host, Path: "/"}
	u.User = userinfo(os.Getenv("MONGODB_USERNAME"), os.Getenv("MONGODB_PASSWORD"))
	return u.String()
}

// userinfo returns nil without a user, and omits an empty password.
func userinfo(user, password string) *url.Userinfo {
	switch {
	case user == "":
		return nil
	case password == "":
		return url.User(user)
	default:
		return url.UserPassword(user, password)
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getbool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getduration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

// getlist splits a comma-separated variable, dropping empty entries.
func getlist(key string) []string {
	var out []string
	for _, v := range strings.Split(os.Getenv(key), ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
