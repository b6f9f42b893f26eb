package main

import (
	"github.com/joho/godotenv"

	"github.com/haytac/emoji-translator/internal/cli"
	"github.com/haytac/emoji-translator/internal/logging"
)

func main() {
	// A missing .env is fine; real environment variables still apply.
	_ = godotenv.Load()

	// Basic logger until the root command loads the real configuration.
	logging.Setup(logging.Config{Level: "info", Console: true, TimeFormat: "15:04:05"})

	cli.Execute()
}
