package main

import (
	"os"

	"traffic-dashboard-backend/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
