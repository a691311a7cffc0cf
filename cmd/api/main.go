package main

import (
	"context"
	"log"

	"resume-ats/internal/bootstrap"
	"resume-ats/internal/shared/config"
	"resume-ats/internal/shared/server"
	"resume-ats/internal/shared/telemetry"
	"resume-ats/internal/shared/tracing"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	if err := telemetry.Init(cfg.LogJSON, cfg.LogDebug); err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer telemetry.Sync()

	shutdownTracing, err := tracing.Setup(context.Background(), "resume-ats-api", cfg.OTLPEndpoint)
	if err != nil {
		log.Fatalf("tracing error: %v", err)
	}
	defer func() { _ = shutdownTracing(context.Background()) }()

	app, err := bootstrap.Build(cfg)
	if err != nil {
		telemetry.Error("api.bootstrap_failed", map[string]any{"error": err})
		log.Fatalf("bootstrap error: %v", err)
	}
	defer app.Close()

	addr := server.Addr(cfg.Port)
	telemetry.Info("api.listening", map[string]any{"addr": addr, "env": cfg.Env, "database": app.DB != nil})

	if err := app.Router.Run(addr); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
