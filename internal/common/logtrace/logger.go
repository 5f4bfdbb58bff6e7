package logtrace

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var traceEnabled bool

func InitLogger() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	if os.Getenv("APPCLOUD_TRACE") != "" {
		traceEnabled = true
		zerolog.SetGlobalLevel(zerolog.TraceLevel)
	}
}

func IsTraceEnabled() bool {
	return traceEnabled
}
