// Package config loads process configuration from HOLMA_* environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"holma/internal/blob"
	"holma/internal/core"
)

// Config captures server-level settings so main stays lean.
type Config struct {
	Addr string
	// MetricsAddr serves /metrics on a separate listener when set; otherwise
	// the main router exposes it.
	MetricsAddr     string
	JWTSecret       string
	CORSOrigin      string
	ShutdownTimeout time.Duration
	Storage         core.StorageConfig
}

// FromEnv builds a Config, failing only on values that do not parse.
func FromEnv() (Config, error) {
	return fromLookup(os.LookupEnv)
}

func fromLookup(lookup func(string) (string, bool)) (Config, error) {
	get := func(key, fallback string) string {
		if v, ok := lookup(key); ok && v != "" {
			return v
		}
		return fallback
	}

	shutdown, err := time.ParseDuration(get("HOLMA_SHUTDOWN_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("HOLMA_SHUTDOWN_TIMEOUT: %w", err)
	}
	pathStyle, err := strconv.ParseBool(get("HOLMA_BLOB_S3_PATH_STYLE", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("HOLMA_BLOB_S3_PATH_STYLE: %w", err)
	}

	driver := core.StorageDriver(get("HOLMA_STORAGE_DRIVER", string(core.StorageSQLite)))
	switch driver {
	case core.StorageMemory, core.StorageSQLite, core.StoragePostgres, core.StorageBlob:
	default:
		return Config{}, fmt.Errorf("HOLMA_STORAGE_DRIVER: unknown driver %q", driver)
	}

	return Config{
		Addr:            get("HOLMA_ADDR", ":8080"),
		MetricsAddr:     get("HOLMA_METRICS_ADDR", ""),
		JWTSecret:       get("HOLMA_JWT_SECRET", ""),
		CORSOrigin:      get("HOLMA_CORS_ORIGIN", "*"),
		ShutdownTimeout: shutdown,
		Storage: core.StorageConfig{
			Driver:      driver,
			SQLitePath:  get("HOLMA_SQLITE_PATH", "./holma.db"),
			PostgresDSN: get("HOLMA_POSTGRES_DSN", ""),
			BlobKey:     get("HOLMA_BLOB_KEY", "holma/state.json"),
			Blob: blob.Config{
				Driver: blob.Driver(get("HOLMA_BLOB_DRIVER", string(blob.DriverFilesystem))),
				FSRoot: get("HOLMA_BLOB_FS_ROOT", "./blobdata"),
				S3: blob.S3Config{
					Bucket:          get("HOLMA_BLOB_S3_BUCKET", ""),
					Region:          get("HOLMA_BLOB_S3_REGION", ""),
					Endpoint:        get("HOLMA_BLOB_S3_ENDPOINT", ""),
					AccessKeyID:     get("AWS_ACCESS_KEY_ID", ""),
					SecretAccessKey: get("AWS_SECRET_ACCESS_KEY", ""),
					SessionToken:    get("AWS_SESSION_TOKEN", ""),
					PathStyle:       pathStyle,
				},
			},
		},
	}, nil
}
