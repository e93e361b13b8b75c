package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"tbnb-faucet/go-gateway/internal/bootstrap/faucetconfig"
	"tbnb-faucet/go-gateway/internal/composition/gatewayserver"
)

var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	listenAddr := flag.String("listen-addr", "", "HTTP listen address (overrides config)")
	configPath := flag.String("config", "", "Path to config.yaml (optional)")
	flag.Parse()
	if *showVersion {
		fmt.Printf("faucet-gateway version=%s commit=%s build_date=%s\n", version, commit, buildDate)
		return
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := faucetconfig.LoadFromPath(*configPath)
	if *listenAddr != "" {
		cfg.ListenAddr = *listenAddr
	}

	srv, err := gatewayserver.NewGatewayServer(ctx, cfg)
	if err != nil {
		log.Fatalf("faucet-gateway failed to initialize: %v", err)
	}

	log.Println("faucet-gateway starting")
	if err := srv.Run(ctx); err != nil {
		log.Fatalf("faucet-gateway failed: %v", err)
	}
	log.Println("faucet-gateway stopped")
}
