package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/appcloud/appcloud-internal/internal/appsrv/appcommon"
	"github.com/appcloud/appcloud-internal/internal/appsrv/config"
	"github.com/appcloud/appcloud-internal/internal/appsrv/db"
	"github.com/appcloud/appcloud-internal/internal/appsrv/server"
	"github.com/appcloud/appcloud-internal/internal/appsrv/sweeper"
	"github.com/appcloud/appcloud-internal/internal/common/logtrace"
)

func init() {
	logtrace.InitLogger()
}

type cmdoptions struct {
	configFile *string
}

func main() {
	slog := log.With().Str("state", "init").Logger()
	// Parse command line flags
	opt := parseFlags()

	slog.Info().Str("config_file", *opt.configFile).Msg("loading config file")
	if _, err := config.LoadConfig(*opt.configFile); err != nil {
		slog.Error().Str("config_file", *opt.configFile).Err(err).Msg("unable to load config file")
		os.Exit(1)
	}
	if config.Config().ServerPort == "" {
		slog.Error().Msg("server port not defined")
		os.Exit(1)
	}

	if err := db.Init(context.Background(), config.Config().DB.Dsn()); err != nil {
		slog.Error().Err(err).Msg("unable to initialize db pool")
		os.Exit(1)
	}

	s, err := server.CreateNewServer()
	if err != nil {
		slog.Error().Err(err).Msg("unable to create server")
		os.Exit(1)
	}
	s.MountHandlers()

	sw, err := sweeper.New()
	if err != nil {
		slog.Error().Err(err).Msg("unable to create sweeper")
		os.Exit(1)
	}
	sw.Start()
	defer sw.Stop()

	slog.Info().Str("port", config.Config().ServerPort).Msg("starting server")
	if err := http.ListenAndServe(":"+config.Config().ServerPort, s.Router); err != nil {
		slog.Error().Err(err).Msg("server exited")
		os.Exit(1)
	}
}

func parseFlags() cmdoptions {
	var opt cmdoptions
	opt.configFile = flag.String("config", appcommon.DefaultConfigFile, "Path to the config file")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [options]\n\n", os.Args[0])
		fmt.Println("Options:")
		flag.PrintDefaults()
	}
	flag.Parse()
	return opt
}
