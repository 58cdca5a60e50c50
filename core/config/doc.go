// Package config provides configuration management for the feed sync tool.
//
// It utilizes Viper for loading configuration from environment variables and
// an optional .env file (via godotenv).
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings,
// divided into subsections:
//   - Database: MySQL connection details for the product catalog
//   - Storage: S3/MinIO credentials for feeds delivered to object storage
//   - Log: Logging level and format
//
// Run-level toggles (which field groups to write, chunk size, feed path) are
// command-line flags, not configuration; see the sync command.
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Database.Host)
package config
