// Package config provides centralized configuration management for the
// statistics importer. It handles loading configuration from multiple
// sources, validation, and provides a type-safe API for accessing
// configuration values throughout the application.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. Configuration file (YAML)
//	3. Built-in defaults (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern STATIMPORT_* for namespacing:
//
//	STATIMPORT_LOGGING_LEVEL=debug
//	STATIMPORT_LOGGING_OUTPUT=both
//	STATIMPORT_IMPORT_DELIMITER=;
//	STATIMPORT_IMPORT_TIMEZONE=Europe/Vienna
//
// The configuration file defaults to config.yaml in the working directory
// and can be pointed elsewhere with STATIMPORT_CONFIG_FILE.
package config
