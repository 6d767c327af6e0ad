package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"

	"gemrecon/internal/cli"
)

func main() {
	// Optional .env for local development.
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
