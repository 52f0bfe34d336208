package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/startdash-dev/startdash/internal/config"
	"github.com/startdash-dev/startdash/internal/handler"
	"github.com/startdash-dev/startdash/internal/logger"
	"github.com/startdash-dev/startdash/internal/router"
	"github.com/startdash-dev/startdash/internal/service"
	"github.com/startdash-dev/startdash/internal/storage/fs"
	"github.com/startdash-dev/startdash/internal/storage/pg"
	"github.com/startdash-dev/startdash/internal/validation"
)

func main() {
	var configFolder string
	flag.StringVar(&configFolder, "config_folder", "config", "path to folder with configs")
	flag.Parse()

	cfg := config.MustLoad(configFolder)
	logger.Initialize(cfg.Log.Level, cfg.Log.JSON)

	storage, err := pg.New(cfg.Pg)
	if err != nil {
		logger.Log.Error("failed to init storage", "error", err)
		os.Exit(1)
	}
	defer storage.Cleanup()

	files, err := fs.New(cfg.Upload.Dir, cfg.Upload.PublicPrefix)
	if err != nil {
		logger.Log.Error("failed to init upload directory", "error", err)
		os.Exit(1)
	}

	backgrounds := service.NewBackgrounds(storage, files, validation.UploadLimits{
		AllowedExtensions: cfg.Upload.AllowedExtensions,
		AllowedMimeTypes:  cfg.Upload.AllowedMimeTypes,
		MaxWidth:          cfg.Upload.MaxImageWidth,
		MaxHeight:         cfg.Upload.MaxImageHeight,
	})

	h := handler.New(storage, storage, backgrounds, storage, cfg)
	r := router.New(h, cfg, files.Root())

	addr := ":" + strconv.Itoa(cfg.HTTP.Port)
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}

	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		logger.Log.Info("server started", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("graceful shutdown failed", "error", err)
	}
}
