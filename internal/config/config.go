// Package config reads server settings from flags, with defaults taken from
// the environment and an optional .env file.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/erazemk/nayzak/internal/storage"
)

// ErrHelp is returned when -h or -help was requested.
var ErrHelp = flag.ErrHelp

// Config holds all server settings.
type Config struct {
	DBPath     string
	Addr       string
	AdminEmail string
	LogPath    string
	Metrics    bool

	// MinIO is used for image storage when MinIO.Endpoint is set; images
	// are kept in the database otherwise.
	MinIO storage.MinIOConfig
}

const usage = `Usage: nayzak [flags]

Flags:
  -d, -db <path>          SQLite database path (env NAYZAK_DB, default: nayzak.sqlite3)
  -a, -addr <host:port>   listen address (env NAYZAK_ADDR, default: :8080)
  -e, -email <address>    admin email on first run (env NAYZAK_ADMIN_EMAIL, default: admin@nayzak.ly)
  -l, -log <path>         log file path (env NAYZAK_LOG, default: stdout/stderr only)
  -metrics                serve Prometheus metrics at /metrics (env NAYZAK_METRICS, default: true)
  -h, -help               show this help and exit

Image storage (environment only):
  MINIO_ENDPOINT, MINIO_ACCESS_KEY, MINIO_SECRET_KEY, MINIO_BUCKET (default: car-images),
  MINIO_USE_SSL, MINIO_PUBLIC_URL. Without MINIO_ENDPOINT images are stored in the database.
`

// Load parses args (without the program name). A .env file in the working
// directory is read first; it never overrides variables already set.
func Load(args []string, out io.Writer) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	cfg := &Config{}
	metricsDefault, err := envBool("NAYZAK_METRICS", true)
	if err != nil {
		return nil, err
	}
	useSSL, err := envBool("MINIO_USE_SSL", false)
	if err != nil {
		return nil, err
	}

	fset := flag.NewFlagSet("nayzak", flag.ContinueOnError)
	fset.SetOutput(out)

	dbDefault := env("NAYZAK_DB", "nayzak.sqlite3")
	fset.StringVar(&cfg.DBPath, "db", dbDefault, "")
	fset.StringVar(&cfg.DBPath, "d", dbDefault, "")

	addrDefault := env("NAYZAK_ADDR", ":8080")
	fset.StringVar(&cfg.Addr, "addr", addrDefault, "")
	fset.StringVar(&cfg.Addr, "a", addrDefault, "")

	emailDefault := env("NAYZAK_ADMIN_EMAIL", "admin@nayzak.ly")
	fset.StringVar(&cfg.AdminEmail, "email", emailDefault, "")
	fset.StringVar(&cfg.AdminEmail, "e", emailDefault, "")

	logDefault := env("NAYZAK_LOG", "")
	fset.StringVar(&cfg.LogPath, "log", logDefault, "")
	fset.StringVar(&cfg.LogPath, "l", logDefault, "")

	fset.BoolVar(&cfg.Metrics, "metrics", metricsDefault, "")

	fset.Usage = func() { fmt.Fprint(out, usage) }

	if err := fset.Parse(args); err != nil {
		return nil, err
	}
	if fset.NArg() > 0 {
		fset.Usage()
		return nil, fmt.Errorf("unexpected argument: %s", fset.Arg(0))
	}

	cfg.MinIO = storage.MinIOConfig{
		Endpoint:  env("MINIO_ENDPOINT", ""),
		AccessKey: env("MINIO_ACCESS_KEY", ""),
		SecretKey: env("MINIO_SECRET_KEY", ""),
		Bucket:    env("MINIO_BUCKET", "car-images"),
		UseSSL:    useSSL,
		PublicURL: env("MINIO_PUBLIC_URL", ""),
	}
	return cfg, nil
}

func env(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) (bool, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return b, nil
}
