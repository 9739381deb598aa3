package main

import (
	"flag"
	"log"

	"goeda/internal/config"
	"goeda/internal/container"
)

func main() {
	cfgFile := flag.String("config", "", "Path to a YAML config file")
	flag.Parse()

	cfg, err := config.Load(*cfgFile)
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	c, err := container.New(cfg)
	if err != nil {
		log.Fatal("Failed to initialize:", err)
	}

	log.Printf("Starting goeda API on http://localhost:%s", cfg.Server.Port)
	log.Fatal(c.Server.Start(":" + cfg.Server.Port))
}
