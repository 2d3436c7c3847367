package endpoints

import (
	"github.com/openlabel/openlabel/pkg/server"
)

// RegisterAll registers all API endpoints on the server
func RegisterAll(srv *server.Server) {
	RegisterAnnotationObjectEndpoints(srv)
	RegisterDataAnnotationEndpoints(srv)
	RegisterDatasetClassEndpoints(srv)
	RegisterDatasetClassificationEndpoints(srv)
	RegisterModelRunEndpoints(srv)
	RegisterStatusEndpoints(srv)
}
