package server

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/openlabel/openlabel/pkg/annotation"
	"github.com/openlabel/openlabel/pkg/class"
	"github.com/openlabel/openlabel/pkg/config"
	"github.com/openlabel/openlabel/pkg/detection"
	"github.com/openlabel/openlabel/pkg/lock"
)

// Server bundles the HTTP router with the stores and services the endpoint
// handlers use.
type Server struct {
	Router *mux.Router
	DB     *gorm.DB
	Config *config.Config

	Reconciler      *annotation.Reconciler
	AnnotationStore annotation.Store
	DataAnnotations *annotation.GormDataAnnotations
	EditLocks       *annotation.GormEditLocks
	Classes         *class.Service
	Classifications *class.ClassificationService
	Runs            detection.RunStore
	ModelClient     *detection.Client
	Importer        *detection.Importer

	srv *http.Server
}

// NewServer wires the services over the given database connection. The
// advisory locks guarding name-uniqueness checks live in PostgreSQL so that
// multiple server instances contend on the same locks.
func NewServer(db *gorm.DB, cfg *config.Config) (*Server, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database handle: %w", err)
	}
	locker := lock.NewPostgresLocker(sqlDB)

	editLocks := annotation.NewGormEditLocks(db, cfg.EditLockTTL())
	annotationStore := annotation.NewGormStore(db)
	reconciler := annotation.NewReconciler(annotationStore, editLocks)

	router := mux.NewRouter().UseEncodedPath()
	srv := &http.Server{
		Handler: handlers.LoggingHandler(os.Stdout, router),
		Addr:    fmt.Sprintf("%s:%d", cfg.BindAddress, cfg.Port),
		// Good practice: enforce timeouts for servers you create!
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}

	return &Server{
		Router:          router,
		DB:              db,
		Config:          cfg,
		Reconciler:      reconciler,
		AnnotationStore: annotationStore,
		DataAnnotations: annotation.NewGormDataAnnotations(db, editLocks),
		EditLocks:       editLocks,
		Classes:         class.NewService(class.NewGormStore(db), locker, cfg.LockTimeout()),
		Classifications: class.NewClassificationService(class.NewGormClassificationStore(db), locker, cfg.LockTimeout()),
		Runs:            detection.NewGormRunStore(db),
		ModelClient:     detection.NewClient(cfg.ModelEndpoint),
		Importer:        detection.NewImporter(reconciler),
		srv:             srv,
	}, nil
}

func (s *Server) Start() error {
	return s.srv.ListenAndServe()
}
