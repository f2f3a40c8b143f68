/* Copyright 2025 Dnote Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dnote/bookstore/pkg/server/buildinfo"
	"github.com/dnote/bookstore/pkg/server/controllers"
	"github.com/dnote/bookstore/pkg/server/log"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// shutdownTimeout is how long in-flight requests may take after a shutdown signal
const shutdownTimeout = 20 * time.Second

func newStartCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start the server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStart(cmd)
		},
	}

	cmd.Flags().String("port", "", "server port (env: PORT, default: 5000)")

	return cmd
}

func runStart(cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd.Flags())
	if err != nil {
		return err
	}

	a, err := initApp(cfg)
	if err != nil {
		return err
	}
	defer closeDB(a.DB)

	ctl := controllers.New(&a)
	handler, err := controllers.NewRouter(&a, ctl, controllers.NewAPIRoutes(&a, ctl))
	if err != nil {
		return errors.Wrap(err, "initializing router")
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      handler,
		IdleTimeout:  time.Minute,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.WithFields(log.Fields{
		"version":  buildinfo.Version,
		"port":     cfg.Port,
		"db":       cfg.DBDriver,
		"assetDir": cfg.AssetDir,
	}).Info("Bookstore server starting")

	return serve(ctx, srv)
}

// serve runs the server until ctx is done and then shuts it down gracefully
func serve(ctx context.Context, srv *http.Server) error {
	shutdownErr := make(chan error, 1)

	go func() {
		<-ctx.Done()
		log.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		shutdownErr <- srv.Shutdown(shutdownCtx)
	}()

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "server failed")
	}

	if err := <-shutdownErr; err != nil {
		return errors.Wrap(err, "shutting down server")
	}

	log.Info("server stopped")
	return nil
}
