package main

import (
	"log"

	_ "github.com/fourohfour/notfound-tracker/docs" // Import generated docs
	"github.com/fourohfour/notfound-tracker/internal/api"
)

// @title NotFound Tracker API
// @version 1.0
// @description 404 capture, aggregation, and retention service for web storefronts.
// @description
// @description ## Features
// @description - **Capture**: Records not-found events with skip-pattern exclusion for admin/API namespaces
// @description - **Aggregated Logs**: Groups events by (domain, path) with filtering, sorting, and pagination
// @description - **Detail View**: Per-group stats and a zero-filled daily time series
// @description - **Retention**: Age-based batched cleanup via CLI and scheduled worker
// @description
// @description ## Architecture
// @description The storefront reports 404s here; it never blocks on us. Redirect lifecycle events arrive over Kafka and prune resolved paths from the log.

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

func main() {
	srv := api.NewServer()
	if err := srv.Serve(); err != nil {
		log.Fatalf("api server stopped: %v", err)
	}
}
