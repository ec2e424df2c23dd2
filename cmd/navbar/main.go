package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/MrSnakeDoc/navbar/internal/app"
)

func main() {
	// A .env file is optional; real environment variables take precedence.
	_ = godotenv.Load()

	if err := app.New().Run(); err != nil {
		log.Fatalf("❌ navbar failed: %v", err)
	}
}
