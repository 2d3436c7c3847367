// Package server provides the HTTP server for the openlabel API.
//
// This package implements the core HTTP server that handles all openlabel
// REST API requests. It uses gorilla/mux for routing and wires the
// annotation, class, and detection services over a shared GORM connection.
//
// # Server Setup
//
//	srv, err := server.NewServer(db, cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	endpoints.RegisterAll(srv)
//	if err := srv.Start(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Components
//
// The Server struct holds:
//
//   - Reconciler: desired-state save of annotation objects
//   - EditLocks: editor-session locks on data items
//   - Classes / Classifications: ontology services with name-uniqueness guards
//   - Runs / ModelClient / Importer: model-run tracking, detection calls,
//     and result import
//
// # Endpoints
//
// API endpoints are registered via the endpoints subpackage:
//
//	endpoints.RegisterAll(srv)
//
// This registers all openlabel API endpoints including:
//
//   - /annotation-objects/save - reconcile the desired annotation set
//   - /data/{dataId}/lock - acquire and release editor-session locks
//   - /data-annotations/{dataId}/save - replace classification answers
//   - /dataset-classes/... - dataset class CRUD and name validation
//   - /dataset-classifications/... - dataset classification CRUD
//   - /models/runs - run a detection model and import its results
//   - /health - liveness and database reachability
package server
