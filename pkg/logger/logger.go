// Package logger holds the process-wide zerolog logger and the Gin
// request and recovery middleware built on it.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

var log zerolog.Logger

func init() {
	Init("info")
}

// Init sets the global log level. Unknown levels fall back to info. At
// debug level output switches to the human-readable console writer for
// local runs; otherwise lines are plain JSON on stdout.
func Init(level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}

	var out io.Writer = os.Stdout
	if lvl == zerolog.DebugLevel {
		out = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "15:04:05"}
	}

	log = zerolog.New(out).Level(lvl).With().Timestamp().Caller().Logger()
}

// Info, Warn and Error start a structured event on the global logger.

func Info() *zerolog.Event  { return log.Info() }
func Warn() *zerolog.Event  { return log.Warn() }
func Error() *zerolog.Event { return log.Error() }

// Infof logs a formatted line at info level.
func Infof(format string, v ...interface{}) {
	log.Info().Msgf(format, v...)
}

// Fatalf logs a formatted line at fatal level and exits the process.
func Fatalf(format string, v ...interface{}) {
	log.Fatal().Msgf(format, v...)
}

// GinLogger logs one line per request with status, latency and client IP.
// Health checks are not logged.
func GinLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/health" {
			c.Next()
			return
		}

		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		status := c.Writer.Status()
		event := log.Info()
		if status >= 500 {
			event = log.Error()
		} else if status >= 400 {
			event = log.Warn()
		}

		event.
			Int("status", status).
			Str("method", c.Request.Method).
			Str("path", path).
			Str("query", query).
			Str("ip", c.ClientIP()).
			Dur("latency", time.Since(start)).
			Msg("request")
	}
}

// GinRecovery logs panics and turns them into bare 500 responses.
func GinRecovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		log.Error().
			Interface("panic", recovered).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Str("ip", c.ClientIP()).
			Msg("panic recovered")
		c.AbortWithStatus(500)
	})
}
