// Command taskschedd runs the task scheduling server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/viant/tasksched"
	"github.com/viant/tasksched/internal/logging"
	"github.com/viant/tasksched/internal/metrics"
	"github.com/viant/tasksched/service/client"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := run(ctx, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "taskschedd: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	flags := flag.NewFlagSet("taskschedd", flag.ContinueOnError)
	configURL := flags.String("config", "", "YAML or JSON config location")
	address := flags.String("address", "", "listen address, overrides config")
	storeKind := flags.String("store", "", "store kind: memory or fs")
	baseURL := flags.String("base", "", "fs store base URL")
	metricsAddress := flags.String("metrics", "", "prometheus listen address")
	if err := flags.Parse(args); err != nil {
		return err
	}

	config := tasksched.DefaultConfig()
	if *configURL != "" {
		var err error
		if config, err = tasksched.LoadConfig(ctx, *configURL); err != nil {
			return err
		}
	}
	if *address != "" {
		config.Server.Address = *address
	}
	if *storeKind != "" {
		config.Store.Kind = *storeKind
	}
	if *baseURL != "" {
		config.Store.BaseURL = *baseURL
	}
	if *metricsAddress != "" {
		config.Metrics.Address = *metricsAddress
	}
	if err := config.Validate(); err != nil {
		return err
	}

	logger, err := logging.New(os.Stderr, config.Log.Format, config.Log.Level)
	if err != nil {
		return err
	}
	options := []tasksched.Option{tasksched.WithConfig(config), tasksched.WithLogger(logger)}
	var metricsServer *http.Server
	if config.Metrics.Address != "" {
		registry := prometheus.NewRegistry()
		registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		options = append(options, tasksched.WithMetrics(metrics.NewPrometheus(registry, config.Metrics.Namespace)))
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
		metricsServer = &http.Server{Addr: config.Metrics.Address, Handler: mux, ReadHeaderTimeout: 10 * time.Second}
		go func() {
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server failed", "error", err)
			}
		}()
	}

	srv, err := tasksched.New(ctx, options...)
	if err != nil {
		return err
	}
	if err = srv.Start(ctx); err != nil {
		return err
	}
	selfCheck(srv.Server().Addr().String(), logger)
	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*config.Server.ReadTimeout)
	defer cancel()
	if metricsServer != nil {
		_ = metricsServer.Shutdown(shutdownCtx)
	}
	return srv.Shutdown(shutdownCtx)
}

// selfCheck sends one request through the listener to confirm the server answers successfully
func selfCheck(address string, logger logging.Logger) bool {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	response, err := client.New(address).Send(ctx, "task/count", nil)
	if err != nil {
		logger.Warn("self-check failed", "address", address, "error", err)
		return false
	}
	if !response.Success {
		logger.Warn("self-check failed", "address", address, "statusCode", response.StatusCode, "message", response.Text())
		return false
	}
	logger.Info("self-check passed", "address", address, "statusCode", response.StatusCode)
	return true
}
