package handler

import (
	"hms/config"
	"hms/di"
	"hms/shared/logger"
	"net/http"
	"sync"
)

var (
	app  *di.App
	once sync.Once
)

// Handler is the serverless entry point. The retention sweep does not run here; schedule
// cmd/app or a cron for it.
func Handler(w http.ResponseWriter, r *http.Request) {
	once.Do(func() {
		cfg := config.Get()

		logger.InitLogger()

		logger.SetLogLevel(cfg)

		app = di.InitializeService()
	})

	r.RequestURI = r.URL.String()

	app.HTTP.ServeHTTP(w, r)
}
