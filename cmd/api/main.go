package main

import (
	"context"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"missiondonate.org/internal/audit"
	"missiondonate.org/internal/auth"
	"missiondonate.org/internal/authz"
	"missiondonate.org/internal/config"
	"missiondonate.org/internal/donate"
	"missiondonate.org/internal/grpcapi"
	"missiondonate.org/internal/httpapi"
	"missiondonate.org/internal/obs"
	"missiondonate.org/internal/store/pg"
)

var (
	version = "0.3.0"
	commit  = "dev"
)

func main() {
	obs.Init()
	obs.InitBuildInfo(version, commit)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	store, err := pg.Open(cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("open store: %v", err)
	}
	defer store.Close()

	tokens, err := auth.NewTokens(cfg.AuthSecret, cfg.AccessTokenTTL)
	if err != nil {
		log.Fatalf("tokens: %v", err)
	}
	svc, err := donate.NewService(store)
	if err != nil {
		log.Fatalf("service: %v", err)
	}

	// Audit entries flow through a bounded queue so a slow store never
	// blocks request handling.
	auditLog := audit.NewLogger(store, cfg.AuditQueueSize)
	defer auditLog.Close()

	gate := authz.NewGate(authz.NewChecker(store), auditLog)

	api := httpapi.New(httpapi.Options{
		AllowedOrigin: cfg.AllowedOrigin,
		MaxBodyBytes:  cfg.MaxBodyBytes,
		RateBurst:     cfg.RateLimitBurst,
		RatePerSec:    cfg.RateLimitPerSec,
	}, httpapi.ReadyProbe{Pinger: store}, version, tokens, gate, svc, store, auditLog)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           api.Handler(),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	log.Printf("Starting missiondonate-api %s on %s", version, srv.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	var grpcSrv *grpcapi.Server
	if cfg.GRPCAddr != "" {
		lis, err := net.Listen("tcp", cfg.GRPCAddr)
		if err != nil {
			log.Fatalf("grpc listen: %v", err)
		}
		grpcSrv = grpcapi.New(store)
		go func() {
			if err := grpcSrv.Serve(lis); err != nil {
				log.Printf("grpc serve: %v", err)
			}
		}()
		log.Printf("gRPC health on %s", cfg.GRPCAddr)
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	log.Println("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = srv.Shutdown(ctx)
	if grpcSrv != nil {
		grpcSrv.Stop()
	}
	log.Println("Stopped")
}
