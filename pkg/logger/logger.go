// Package logger arma el logger zerolog de la aplicación: consola legible en
// desarrollo, JSON en cualquier otro entorno.
package logger

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const envDevelopment = "development"

// Config opciones del logger.
type Config struct {
	Env   string // development -> ConsoleWriter; resto -> JSON
	Level string // trace | debug | info | warn | error (default info)
}

// Logger envuelve zerolog para inyectarlo como dependencia.
type Logger struct {
	zl zerolog.Logger
}

// New construye el logger y además lo instala como logger global de zerolog,
// para las librerías que loguean por esa vía.
func New(cfg Config) *Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	zl := zerolog.New(os.Stdout)
	if cfg.Env == envDevelopment {
		zl = zl.Output(zerolog.ConsoleWriter{Out: os.Stdout})
	}
	zl = zl.Level(level).With().Timestamp().Logger()

	log.Logger = zl
	return &Logger{zl: zl}
}

func (l *Logger) Trace() *zerolog.Event { return l.zl.Trace() }
func (l *Logger) Debug() *zerolog.Event { return l.zl.Debug() }
func (l *Logger) Info() *zerolog.Event  { return l.zl.Info() }
func (l *Logger) Warn() *zerolog.Event  { return l.zl.Warn() }
func (l *Logger) Error() *zerolog.Event { return l.zl.Error() }
func (l *Logger) Fatal() *zerolog.Event { return l.zl.Fatal() }

// With abre un sublogger con campos fijos.
func (l *Logger) With() zerolog.Context { return l.zl.With() }

// Zerolog expone el logger interno para middlewares que piden la API directa.
func (l *Logger) Zerolog() zerolog.Logger { return l.zl }
