package log

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Logger = zerolog.Logger

// New builds the application logger. In the dev environment output is
// pretty-printed to the console; everywhere else it is plain JSON on stdout.
func New(env string) Logger {
	level := zerolog.InfoLevel
	if env == "dev" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})
	}
	return log.Level(level)
}
