package main

import (
	"github.com/rawfidkshuvo/king-police-backend/internal/app"
	"github.com/rawfidkshuvo/king-police-backend/internal/config"
)

func main() {
	app.Go(config.Load())
}
