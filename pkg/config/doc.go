// Package config provides configuration management for openlabel.
//
// This package handles loading openlabel server configuration from a YAML
// file and environment variables.
//
// # Configuration Sources
//
// Configuration is loaded from:
//
//   - Environment variables (primary)
//   - /etc/openlabel/openlabel.yml (optional, override with OPENLABEL_CONFIG_PATH)
//
// # Key Configuration Options
//
//   - DATABASE_URL: Database connection
//   - PORT, BIND_ADDRESS: Server listen address
//   - OPENLABEL_MODEL_ENDPOINT: Object-detection model service URL
//   - OPENLABEL_LOG_LEVEL: Logging verbosity
package config
