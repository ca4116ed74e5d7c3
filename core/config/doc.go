// Package config provides configuration management for filelist-diff.
//
// It utilizes Viper for loading configuration from environment variables and an
// optional .env file. Defaults come from the `default` struct tags of each section.
// Command-line flags override these values when they are given explicitly.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Compare: round size, delimiter, encoding, exclude patterns, duplicate policy, publish target
//   - Server: HTTP port and API key for the serve command
//   - Database: optional run history database (none, mysql, sqlite)
//   - Storage: S3/MinIO credentials for s3:// inputs and publishing
//   - Log: Logging level and format
//
// # Environment Variables
//
// Keys map to upper-case names with dots replaced by underscores, for example
// COMPARE_ROUND_SIZE, LOG_LEVEL, DATABASE_DRIVER, STORAGE_ENDPOINT and SERVER_PORT.
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Compare.RoundSize)
package config
