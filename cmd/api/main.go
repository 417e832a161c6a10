package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/afero"

	"github.com/bryanwahyu/wireframe-extract/internal/bootstrap"
	"github.com/bryanwahyu/wireframe-extract/internal/config"
	"github.com/bryanwahyu/wireframe-extract/internal/infra/httpserver"
)

func main() {
	if err := config.LoadEnvFile(".env"); err != nil {
		log.Fatalf("env load error: %v", err)
	}

	// path config.yaml
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	// load config
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}
	cfg.ApplyEnv()
	cfg.DefaultDriver("sqlite")

	ctx := context.Background()

	// wire db, minio, ai client and service
	app, err := bootstrap.New(ctx, cfg, afero.NewOsFs())
	if err != nil {
		log.Fatalf("bootstrap error: %v", err)
	}
	defer app.Close()

	// init router
	mux := chi.NewRouter()
	mux.Mount("/", httpserver.NewRouter(app.Service, httpserver.Options{
		InputDir:       cfg.Paths.InputDir,
		OutputDir:      cfg.Paths.OutputDir,
		APIKeys:        cfg.Server.APIKeys,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Checkers:       app.Checkers,
	}))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:        addr,
		Handler:     mux,
		ReadTimeout: 15 * time.Second,
		// analyses run synchronously; a project run makes several model calls
		WriteTimeout: cfg.Timeout()*4 + 30*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// run server
	go func() {
		log.Printf("server listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Println("shutting down server...")

	ctx2, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
