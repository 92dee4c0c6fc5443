package logging

import (
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// New returns a logger that writes JSON lines to a rotating file. The
// terminal belongs to the TUI, so nothing is ever written to stdout/stderr.
func New(path, level string) (zerolog.Logger, io.Closer, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), nil, errors.Wrapf(err, "parse log level %q", level)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return zerolog.Nop(), nil, errors.Wrap(err, "create log directory")
	}

	rotator := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    10, // Megabytes
		MaxBackups: 3,
		MaxAge:     14, // Days
		Compress:   true,
	}

	logger := zerolog.New(rotator).
		Level(lvl).
		With().
		Timestamp().
		Str("app", "ragchat").
		Logger()

	return logger, rotator, nil
}
