package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/spf13/cobra"

	"github.com/dshills/gpacalc/internal/engine"
	"github.com/dshills/gpacalc/internal/server"
	"github.com/dshills/gpacalc/internal/session"
)

type serveFlags struct {
	addr  string
	watch bool
}

func newServeCmd(g *globalFlags) *cobra.Command {
	f := &serveFlags{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve report queries over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(g, f, cmd)
		},
	}
	cmd.Flags().StringVar(&f.addr, "addr", "", "Listen address (default: from config)")
	cmd.Flags().BoolVar(&f.watch, "watch", false, "Reload when roster or grade sheets change")
	return cmd
}

func runServe(g *globalFlags, f *serveFlags, cmd *cobra.Command) error {
	cfg, logger, err := g.setup(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	addr := cfg.Server.Addr
	if f.addr != "" {
		addr = f.addr
	}
	if !g.verbose {
		gin.SetMode(gin.ReleaseMode)
	}

	src := sources(cfg)
	sess := session.New(func() (*engine.Snapshot, error) {
		return engine.Load(src, logger)
	}, cfg.Server.CacheTTL, logger)
	if _, err := sess.Reload(); err != nil {
		return exitError(3, "failed to load inputs: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if f.watch {
		w, err := newWatcher([]string{cfg.RosterDir, cfg.DataDir}, cfg.Server.Debounce, logger)
		if err != nil {
			return exitError(3, "failed to watch inputs: %v", err)
		}
		go w.run(ctx, func() {
			_, _ = sess.Reload()
		})
	}

	srv := server.New(sess, logger, version).HTTPServer(addr)
	errc := make(chan error, 1)
	go func() {
		level.Info(logger).Log("msg", "listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return exitError(1, "http server error: %v", err)
		}
		return nil
	case <-ctx.Done():
	}
	stop()
	return shutdown(srv, logger)
}

// shutdown gives in-flight requests five seconds to finish.
func shutdown(srv *http.Server, logger log.Logger) error {
	level.Info(logger).Log("msg", "shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		level.Error(logger).Log("msg", "forced shutdown", "err", err)
		return err
	}
	return nil
}
