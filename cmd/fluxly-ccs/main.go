package main

import (
	gocontext "context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/Z34D/fluxly-ccs/internal/config"
	"github.com/Z34D/fluxly-ccs/internal/constants"
	"github.com/Z34D/fluxly-ccs/internal/diagnostics"
	"github.com/Z34D/fluxly-ccs/internal/server"
	"github.com/Z34D/fluxly-ccs/internal/utils"
)

func initLogging() {
	log.SetFormatter(&log.TextFormatter{
		ForceColors:   true,
		FullTimestamp: true,
	})
	log.SetOutput(os.Stdout)
}

func main() {
	var cli config.Cli
	kong.Parse(&cli,
		kong.Name(constants.Name),
		kong.Description("CORS-enabling reverse proxy for the Git smart HTTP protocol."),
	)
	if cli.Version {
		fmt.Printf("%s v%s\n", constants.Name, constants.Version)
		return
	}

	initLogging()
	cfg := config.LoadConfigOrDie(&cli)

	errorLog, errorLogCloser := utils.CreateLogrusStdLogger(log.ErrorLevel)
	defer errorLogCloser()

	proxyServer := server.NewProxyServer(cfg)
	srv := &http.Server{
		Addr:     *cfg.Server.Listen,
		Handler:  proxyServer,
		ErrorLog: errorLog,
	}

	var diagSrv *http.Server
	if cfg.Diagnostics.Enabled {
		diagSrv = diagnostics.NewServer(cfg.Diagnostics).CreateHttpServer()
	}

	group, groupCtx := errgroup.WithContext(gocontext.Background())
	group.Go(func() error {
		log.Infof("Starting %s v%s on %s", constants.Name, constants.Version, *cfg.Server.Listen)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("proxy server failed: %w", err)
		}
		return nil
	})
	if diagSrv != nil {
		group.Go(func() error {
			if err := diagSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("diagnostics server failed: %w", err)
			}
			return nil
		})
	}
	group.Go(func() error {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
		select {
		case sig := <-ch:
			log.Infof("Received signal %s, shutting down %s...", sig, constants.Name)
		case <-groupCtx.Done():
		}
		_ = srv.Close()
		if diagSrv != nil {
			_ = diagSrv.Close()
		}
		return nil
	})

	if err := group.Wait(); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
	proxyServer.Shutdown()

	log.Infof("%s stopped", constants.Name)
}
