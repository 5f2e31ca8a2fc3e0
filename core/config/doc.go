// Package config provides configuration management for the replay scheduler.
//
// It utilizes Viper for loading configuration from environment variables
// and an optional .env file.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Server: HTTP server settings (port, API key, environment)
//   - Database: MySQL or SQLite connection details
//   - Storage: S3/MinIO credentials, bucket and object prefixes
//   - Log: Logging level and format
//   - Compare: worker pool size, config cache TTL, diff flags and error truncation window
//
// Defaults come from the `default` struct tags; environment variables override them using
// the upper-cased dotted key (e.g. COMPARE_WORKERS -> compare.workers).
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Compare.Workers)
package config
