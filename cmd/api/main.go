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

	_ "github.com/saulo-duarte/classroom-lambda/docs"
	"github.com/saulo-duarte/classroom-lambda/internal/config"
	"github.com/saulo-duarte/classroom-lambda/internal/container"
	"github.com/saulo-duarte/classroom-lambda/internal/router"
)

func main() {
	c := container.New()

	handler := router.New(router.RouterConfig{
		CorsOrigins:       c.Settings.CorsOrigins,
		UserHandler:       c.UserContainer.Handler,
		ModuleHandler:     c.ModuleContainer.Handler,
		QuizHandler:       c.QuizContainer.Handler,
		SubmissionHandler: c.SubmissionContainer.Handler,
		ContentHandler:    c.ContentContainer.Handler,
	})

	if os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != "" {
		// No cron between invocations: purge once per cold start.
		c.ContentContainer.Janitor.RunOnce(context.Background())
		lambda.Start(httpadapter.New(handler).ProxyWithContext)
		return
	}

	c.ContentContainer.Janitor.Start()

	srv := &http.Server{
		Addr:              ":" + c.Settings.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		config.Logger.WithField("port", c.Settings.Port).Info("API listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			config.Logger.WithError(err).Fatal("Server failed")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		config.Logger.WithError(err).Error("Graceful shutdown failed")
	}
	<-c.ContentContainer.Janitor.Stop().Done()
	config.Logger.Info("API stopped")
}
