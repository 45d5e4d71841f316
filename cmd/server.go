/*
Copyright 2025 Spendtrail Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/spendtrail/spendtrail/api"
	"github.com/spendtrail/spendtrail/config"
)

func initializeRouter(s *spendtrailInstance) *gin.Engine {
	return api.NewAPI(s.spendtrail, s.gate).Router()
}

// startServer serves the router and shuts down gracefully on SIGINT or
// SIGTERM, draining in-flight requests for up to ten seconds.
func startServer(router *gin.Engine, cfg config.ServerConfig) error {
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	errChan := make(chan error, 1)
	go func() {
		log.Printf("Starting server on http://localhost:%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case sig := <-quit:
		log.Printf("Received %s, shutting down", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}

// serverCommands returns the Cobra command responsible for starting the
// Spendtrail server.
func serverCommands(s *spendtrailInstance) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start",
		Short: "start spendtrail server",
		Run: func(cmd *cobra.Command, args []string) {
			router := initializeRouter(s)

			cfg, err := config.Fetch()
			if err != nil {
				log.Fatal(err)
			}

			if err := startServer(router, cfg.Server); err != nil {
				log.Fatal(err)
			}

			if err := s.spendtrail.Close(); err != nil {
				log.Printf("Error closing event publisher: %v", err)
			}
		},
	}

	return cmd
}
