package config

import (
	"log/slog"

	"github.com/joho/godotenv"
)

// envFiles are tried in order; the first that loads wins. Existing process
// environment variables are never overwritten.
var envFiles = []string{".env", ".env.local"}

func loadEnvFiles() {
	for _, path := range envFiles {
		if err := godotenv.Load(path); err == nil {
			slog.Debug("Loaded environment variables", "path", path)
			return
		}
	}
}
