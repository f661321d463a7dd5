package utils

import (
	"log"

	"github.com/joho/godotenv"
)

// LoadEnv loads a .env file when one exists; a missing file is fine.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, continuing...")
	}
}
