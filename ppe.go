//go:build !cli
// +build !cli

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"

	"ppe.GO/api"
	_ "ppe.GO/api/catalog"
	_ "ppe.GO/api/employee"
	_ "ppe.GO/api/gear"
	_ "ppe.GO/api/system"
	"ppe.GO/bootstrap"
	"ppe.GO/config"
	"ppe.GO/core/auth"
)

func main() {
	config.LoadEnv()
	config.ConfigureLogger()
	cfg := config.LoadAppConfig()
	log := config.GetLogger()

	app, err := bootstrap.New(cfg)
	if err != nil {
		log.WithError(err).Fatal("failed to wire application")
	}
	defer app.Close()

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.Gzip())
	e.Use(middleware.Decompress())

	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			duration := time.Since(start).Milliseconds()
			c.Response().Header().Set("X-Request-Duration-ms", strconv.FormatInt(duration, 10))
			return err
		}
	})

	apiGroup := e.Group("/api")
	apiGroup.Use(auth.Middleware())
	api.ApplyModules(apiGroup, app)
	api.ApplyRoutes(e, app)

	figure.NewFigure("PPE ledger", "", true).Print()
	go func() {
		log.WithFields(logrus.Fields{"port": cfg.Port, "storage": cfg.StorageDriver}).Info("server running")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server stopped")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
	}
}
