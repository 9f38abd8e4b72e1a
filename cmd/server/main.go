package main

import (
	"fmt"
	"log"
	"os"

	"questlog/internal/api"
	"questlog/internal/config"
	"questlog/internal/db"
	redisdb "questlog/internal/redis"
)

func main() {
	cfg, err := config.LoadConfig("config.json")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	if err := db.Init(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "DB init error: %v\n", err)
		os.Exit(1)
	}
	rdb := redisdb.NewClient(cfg)

	if cfg.Generator.URL == "" {
		log.Printf("[Main] Milestone generator disabled in config, using built-in defaults")
	}
	if cfg.Catalog.URL == "" {
		log.Printf("[Main] Catalog lookup disabled in config")
	}

	r := api.SetupRouter(cfg, rdb)
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	fmt.Printf("Starting server on %s%s\n", addr, cfg.Server.Subpath)
	if err := r.Run(addr); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
