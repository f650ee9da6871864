package main

import (
	"net/http"
	"os"
	"time"

	"github.com/bkoksal/tgf-handicap/internal/config"
	"github.com/bkoksal/tgf-handicap/internal/course"
	"github.com/bkoksal/tgf-handicap/internal/logger"
	"github.com/bkoksal/tgf-handicap/internal/player"
	"github.com/bkoksal/tgf-handicap/internal/session"
	"github.com/bkoksal/tgf-handicap/internal/web"
)

func main() {
	cfg := config.Load()

	log := logger.New(logger.Level(cfg.LogLevel), os.Stdout)
	logger.SetDefault(log)

	factory := session.NewFactory()

	playerSessions := session.NewCache(factory, player.SessionPage, player.SessionExtra())
	playerSessions.MaxAge = cfg.SessionMaxAge
	// Loading the list page once per session primes the server-side state the
	// search endpoint expects.
	playerSessions.WarmPage = player.ListPage
	playerSessions.WarmQuery = player.SessionExtra()

	courseSessions := session.NewCache(factory, course.SessionPage, course.SessionExtra())
	courseSessions.MaxAge = cfg.SessionMaxAge

	var directory player.Directory = player.NewClient(playerSessions)
	var catalog course.Catalog = course.NewClient(courseSessions)
	if cfg.NoBrowser {
		log.Info("headless-browser fallback disabled", nil)
	} else {
		directory = &player.Fallback{Primary: directory, Secondary: player.NewBrowser(), OnEmpty: true}
		catalog = &course.Fallback{Primary: catalog, Secondary: course.NewBrowser()}
	}

	srv := web.NewServer(log, directory, course.NewCache(catalog))

	httpServer := &http.Server{
		Addr:    cfg.Addr,
		Handler: srv.Routes(),

		// Browser-fallback searches can run for over a minute.
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 3 * time.Minute,
		IdleTimeout:  2 * time.Minute,
	}

	log.Info("listening", logger.Fields{"addr": cfg.Addr})
	if err := httpServer.ListenAndServe(); err != nil {
		log.Error("server stopped", nil, err)
		os.Exit(1)
	}
}
