package main

import (
	"os"

	"github.com/Lingikaushikreddy/nova-matches/cmd"
	"github.com/joho/godotenv"
)

func main() {
	// A local .env can supply NOVA_API_URL and NOVA_TOKEN_FILE.
	_ = godotenv.Load()

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
