package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/awslabs/aws-lambda-go-api-proxy/httpadapter"
	"github.com/sirupsen/logrus"

	"github.com/saulo-duarte/proposals-lambda/internal/config"
	"github.com/saulo-duarte/proposals-lambda/internal/container"
	"github.com/saulo-duarte/proposals-lambda/internal/router"
)

// @title                      Proposals API
// @version                    1.0
// @description                Purchase proposals with ticket numbers and owner lookup.
// @BasePath                   /
// @securityDefinitions.apikey BearerAuth
// @in                         header
// @name                       Authorization
func main() {
	ctx := context.Background()

	c, err := container.New(ctx)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to initialise application")
	}
	defer config.Close(ctx)

	handler := router.New(router.RouterConfig{
		UserHandler:     c.UserContainer.Handler,
		ProposalHandler: c.ProposalContainer.Handler,
		AuthHandler:     c.AuthHandler,
		MetricsHandler:  c.Metrics.Handler(),
		AllowedOrigins:  c.Settings.CorsAllowedOrigins,
	})

	if os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != "" {
		config.Logger.Info("Starting lambda handler")
		lambda.Start(httpadapter.New(handler).ProxyWithContext)
		return
	}

	serve(handler, c.Settings)
}

func serve(handler http.Handler, s *config.Settings) {
	server := &http.Server{
		Addr:         ":" + s.Port,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		config.Logger.WithField("port", s.Port).Info("Server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			config.Logger.WithError(err).Fatal("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	config.Logger.Info("Server shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), s.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		config.Logger.WithError(err).Error("Server forced to shutdown")
	}
	config.Logger.Info("Server exited")
}
