// Package logging configures the global zerolog logger.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/natefinch/lumberjack"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"provincewar/internal/config"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// New builds a logger writing to out and, when cfg.File is set, to a rotated
// JSON file. The returned closer releases the file.
func New(cfg config.LogConfig, out io.Writer) (zerolog.Logger, io.Closer) {
	if cfg.Pretty {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	var closer io.Closer = nopCloser{}
	if cfg.File != "" {
		file := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    max(1, cfg.MaxSize),
			MaxBackups: max(0, cfg.MaxBackups),
			MaxAge:     max(0, cfg.MaxAge),
			Compress:   cfg.Compress,
		}
		out = zerolog.MultiLevelWriter(out, file)
		closer = file
	}

	return zerolog.New(out).Level(Level(cfg.Level)).With().Timestamp().Logger(), closer
}

// Setup installs the logger from cfg as the global logger.
func Setup(cfg config.LogConfig) io.Closer {
	logger, closer := New(cfg, os.Stderr)
	// The global level gates the logger so it can be changed at runtime
	log.Logger = logger.Level(zerolog.TraceLevel)
	zerolog.SetGlobalLevel(Level(cfg.Level))
	return closer
}

// Level parses a level name, falling back to info.
func Level(name string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(name))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}
