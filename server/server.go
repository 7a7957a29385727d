package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Daskott/raksha/engine/jobs"
	"github.com/Daskott/raksha/engine/logger"
	"github.com/Daskott/raksha/engine/session"
	"github.com/Daskott/raksha/shared"
	"github.com/gorilla/mux"
)

const (
	DEFAULT_PORT     = 3000
	SHUTDOWN_TIMEOUT = 5 * time.Second
	JOB_TIMEOUT      = 2 * time.Minute
)

var logg = logger.NewLogger().Named("server")

// Server exposes a session over a local JSON API
type Server struct {
	session *session.Session
	router  *mux.Router
}

func NewServer(s *session.Session) *Server {
	srv := &Server{session: s, router: mux.NewRouter()}
	srv.routes()
	return srv
}

func (srv *Server) routes() {
	router := srv.router
	router.Use(loggingMiddleware, jsonContentTypeMiddleware)

	router.HandleFunc("/status", srv.status).Methods("GET")
	router.HandleFunc("/alerts", srv.sendAlert).Methods("POST")
	router.HandleFunc("/location/refresh", srv.refreshLocation).Methods("POST")
	router.HandleFunc("/network", srv.updateNetwork).Methods("POST")

	router.HandleFunc("/contacts", srv.listContacts).Methods("GET")
	router.HandleFunc("/contacts", srv.addContact).Methods("POST")
	router.HandleFunc("/contacts/{id}", srv.editContact).Methods("PATCH")
	router.HandleFunc("/contacts/{id}", srv.removeContact).Methods("DELETE")

	router.HandleFunc("/settings", srv.showSettings).Methods("GET")
	router.HandleFunc("/settings", srv.updateSettings).Methods("PATCH")

	router.NotFoundHandler = jsonContentTypeMiddleware(http.HandlerFunc(notFound))
	router.MethodNotAllowedHandler = jsonContentTypeMiddleware(http.HandlerFunc(methodNotAllowed))
}

func (srv *Server) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	srv.router.ServeHTTP(rw, r)
}

// Start starts the session's scheduled jobs & the API server, and blocks until
// SIGINT/SIGTERM, then shuts both down
func Start(s *session.Session, config shared.Config) error {
	port := config.Listener.Port
	if port == 0 {
		port = DEFAULT_PORT
	}

	adapter := jobs.NewWorkerAdapter(config.Cron.TimeZone, JOB_TIMEOUT)
	if err := s.RegisterJobs(adapter, config.Cron, config.Google.Storage); err != nil {
		return err
	}
	adapter.Start()

	httpServer := &http.Server{
		Addr:         fmt.Sprintf("127.0.0.1:%v", port),
		Handler:      NewServer(s),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: time.Minute,
	}

	errChan := make(chan error, 1)
	go func() {
		errChan <- serve(httpServer)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errChan:
		adapter.Stop()
		return err
	case sig := <-quit:
		logg.Infof("Received %v, shutting down", sig)
	}

	return cleanup(adapter, httpServer, s, config.Google.Storage.EnableStoreBackup)
}

// ----------------------------------------------------------------------------//
// Server Helper functions
// ----------------------------------------------------------------------------//

func serve(server *http.Server) error {
	logg.Infof("Raksha server is listening on %v", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func cleanup(adapter *jobs.WorkerPoolAdapter, server *http.Server, s *session.Session, backupStore bool) error {
	// Stop scheduled jobs before the final backup
	adapter.Stop()

	if backupStore {
		if err := s.Backup(context.Background()); err != nil {
			logg.Errorf("Final store backup failed: %v", err)
		}
	}

	ctxShutDown, cancel := context.WithTimeout(context.Background(), SHUTDOWN_TIMEOUT)
	defer cancel()
	if err := server.Shutdown(ctxShutDown); err != nil {
		return fmt.Errorf("Raksha server shutdown failed: %v", err)
	}

	logg.Infof("Raksha server stopped properly")
	return nil
}
