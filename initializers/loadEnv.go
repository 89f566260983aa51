package initializers

import (
	"log/slog"

	"github.com/joho/godotenv"
)

// LoadEnv reads .env if present. Variables already set in the environment win.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file loaded, using environment variables", "error", err)
	}
}
