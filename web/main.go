package main

import (
	"flag"
	"log"
	"os"

	"github.com/df07/go-pathtracer/pkg/config"
	"github.com/df07/go-pathtracer/pkg/output"
	"github.com/df07/go-pathtracer/web/server"
)

func main() {
	// Parse command line flags
	port := flag.Int("port", 8080, "Port to serve on")
	envFile := flag.String("env", ".env", "Settings file with render defaults and S3 credentials")
	flag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	var publisher *output.S3Publisher
	if cfg.PublishEnabled() {
		publisher, err = output.NewS3Publisher(cfg.S3, nil)
		if err != nil {
			log.Fatalf("Failed to create S3 publisher: %v", err)
		}
		log.Printf("Publishing renders to bucket %s", cfg.S3.Bucket)
	}

	webServer := server.NewServer(*port, cfg, publisher)

	log.Printf("Path Tracer Web Server")
	log.Printf("Visit http://localhost:%d/api/scenes to list scenes", *port)

	if err := webServer.Start(); err != nil {
		log.Printf("Error starting server: %v", err)
		os.Exit(1)
	}
}
