package main

import (
	"log"

	"github.com/mindweave/mindweave-backend/internal/app"
)

func main() {
	a, err := app.New()
	if err != nil {
		log.Fatalf("startup failed: %v", err)
	}
	defer a.Close()

	if err := a.Start(); err != nil {
		a.Log.Fatal("failed to start background workers", "error", err)
	}

	if err := a.Run(":" + a.Config.Port); err != nil {
		a.Log.Fatal("http server exited", "error", err)
	}
}
