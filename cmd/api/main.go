package main

import (
	"fmt"
	"os"

	"github.com/rasgroup/appfolio-recon-backend/internal/cli"
	"github.com/rasgroup/appfolio-recon-backend/internal/infrastructure/config"
)

func main() {
	flags := cli.ParseServeFlags()

	cfg := config.LoadOrEnv()
	if path := os.Getenv("RECON_CONFIG"); path != "" {
		cfg = config.LoadOrEnv_WithPath(path)
	}

	if err := cli.RunServe(cfg, flags); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
