package main

import (
	"fmt"
	"log"

	"oneguard/internal/config"
	"oneguard/internal/database"
	"oneguard/internal/server"
)

func main() {
	cfg := config.Load()
	db := database.Init(cfg.DBDSN)

	r := server.NewRouter(cfg, db)

	addr := fmt.Sprintf(":%s", cfg.ServerPort)
	log.Printf("starting server on %s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
