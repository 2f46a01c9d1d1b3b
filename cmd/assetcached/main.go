package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/homegrid/assetcache/internal/cache"
	"github.com/homegrid/assetcache/internal/config"
	"github.com/homegrid/assetcache/internal/metrics"
	"github.com/homegrid/assetcache/internal/proxy"
	"github.com/homegrid/assetcache/internal/seed"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to the configuration file")
	printConfig := flag.Bool("print-config", false, "print the effective configuration and exit")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	if err := cfg.Validate(); err != nil {
		logrus.Fatalf("Invalid configuration: %v", err)
	}

	level, _ := cfg.GetLogLevel()
	logrus.SetLevel(level)

	if *printConfig {
		dump, err := cfg.Dump()
		if err != nil {
			logrus.Fatalf("Failed to dump config: %v", err)
		}
		fmt.Print(dump)
		return
	}

	ctx := context.Background()

	store, err := openStore(ctx, cfg)
	if err != nil {
		logrus.Fatalf("Failed to create store: %v", err)
	}
	if err := store.Init(ctx); err != nil {
		logrus.Fatalf("Failed to initialize store: %v", err)
	}

	server := proxy.New(cfg, store)

	// Seed before the listener starts: interception must never observe a
	// store that is still being written
	origin, err := cfg.GetOriginURL()
	if err != nil {
		logrus.Fatalf("Invalid origin URL: %v", err)
	}
	timeout, err := cfg.GetSeedTimeout()
	if err != nil {
		logrus.Fatalf("Invalid seed timeout: %v", err)
	}

	seeder := seed.New(origin, server.Cache(), timeout)
	seeder.AbortOnError = cfg.Seed.OnError == "abort"
	if err := seeder.Seed(ctx, cfg.Seed.Paths); err != nil {
		logrus.Fatalf("Seed initialization failed: %v", err)
	}
	server.MarkReady()

	if cfg.Server.MetricsPort != 0 {
		go func() {
			addr := fmt.Sprintf(":%d", cfg.Server.MetricsPort)
			logrus.Infof("Serving metrics on %s/metrics", addr)
			mux := http.NewServeMux()
			mux.Handle("/metrics", metrics.Handler())
			if err := http.ListenAndServe(addr, mux); err != nil {
				logrus.Errorf("Metrics server failed: %v", err)
			}
		}()
	}

	if err := server.Start(); err != nil {
		logrus.Fatalf("Server failed: %v", err)
	}
}

func openStore(ctx context.Context, cfg *config.Config) (cache.Store, error) {
	switch cfg.Store.Backend {
	case "disk":
		return cache.NewDisk(cfg.Store.Disk.Folder, cfg.Store.Version), nil
	case "memory":
		return cache.NewMemory(cfg.Store.Version), nil
	case "redis":
		return cache.NewRedis(cfg.Store.Redis.Addr, cfg.Store.Redis.Password, cfg.Store.Redis.DB, cfg.Store.Version), nil
	case "dynamodb":
		return cache.NewDynamo(ctx, cfg.Store.Dynamo.Table, cfg.Store.Dynamo.Region, cfg.Store.Dynamo.Endpoint, cfg.Store.Version)
	default:
		return nil, fmt.Errorf("unknown store backend: %s", cfg.Store.Backend)
	}
}
