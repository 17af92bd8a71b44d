package main

import (
	"os"

	_ "github.com/joho/godotenv/autoload"
)

// @title PDF Chat API
// @version 1.0
// @description Upload PDFs and ask questions about them.
// @BasePath /
func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
