// Package main implements labelctl, the OpenLabel annotation platform CLI.
//
// OpenLabel is the backend of a data-annotation platform: it stores
// annotation objects against dataset items, manages dataset ontologies
// (classes and classifications), and imports results from an external
// object-detection model.
//
// # Architecture
//
// The server is organized into several packages:
//
//   - pkg/server: HTTP server and routing
//   - pkg/server/endpoints: REST API endpoint handlers
//   - pkg/annotation: annotation-object reconciliation and edit locks
//   - pkg/class: dataset classes, classifications and ontology loading
//   - pkg/detection: model-service client, result conversion and import
//   - pkg/lock: named advisory locks
//   - pkg/model: Database models
//   - pkg/db: Database connection utilities
//   - pkg/config: Configuration management
//
// # Quick Start
//
//	# Run database migrations
//	labelctl db migrate
//
//	# Load an ontology
//	labelctl ontology load ontology.yml
//
//	# Start the server
//	labelctl server
//
// # Environment Variables
//
//   - DATABASE_URL: PostgreSQL connection string
//   - OPENLABEL_MODEL_ENDPOINT: URL of the object-detection model service
//   - OPENLABEL_LOCK_TIMEOUT_MS: wait bound for name-uniqueness locks
//   - OPENLABEL_EDIT_LOCK_TTL_SECONDS: editor-session lock lifetime
//   - OPENLABEL_LOG_LEVEL: Log level (debug enables SQL logging)
//   - PORT: Server port (default: 8000)
package main
