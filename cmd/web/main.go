package main

import (
	"os"

	"github.com/joho/godotenv"
)

func main() {
	// .env is optional; real deployments configure the environment directly.
	_ = godotenv.Load()

	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
