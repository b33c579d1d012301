package main

import (
	"log"

	"github.com/MrSnakeDoc/subtrack/internal/app"
)

func main() {
	if err := app.New().Run(); err != nil {
		log.Fatalf("❌ subtrack failed to start: %v", err)
	}
}
