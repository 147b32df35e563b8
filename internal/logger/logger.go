package logger

import (
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// New returns a console logger on out at the named level. Unknown levels
// fall back to warn.
func New(out io.Writer, level string) zerolog.Logger {
	zerolog.CallerMarshalFunc = func(pc uintptr, file string, line int) string {
		short := file
		for i := len(file) - 1; i > 0; i-- {
			if file[i] == '/' {
				short = file[i+1:]
				break
			}
		}
		return short + ":" + strconv.Itoa(line)
	}

	consoleWriter := zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.RFC3339,
		NoColor:    true,
	}

	return zerolog.New(consoleWriter).
		Level(ParseLevel(level, zerolog.WarnLevel)).
		With().
		Timestamp().
		Caller().
		Logger()
}

func ParseLevel(levelStr string, defaultLevel zerolog.Level) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(levelStr)) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return defaultLevel
	}
}
