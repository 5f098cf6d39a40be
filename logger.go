// logger.go
package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
)

// setupLogging loads the .env files into the environment before the logger
// reads ENV from it. A load error is returned alongside the logger.
func setupLogging(w io.Writer, envFiles ...string) (*slog.Logger, error) {
	envErr := godotenv.Load(envFiles...)
	return InitLogger(w), envErr
}

// InitLogger installs the JSON logger writing to w as the slog default.
func InitLogger(w io.Writer) *slog.Logger {
	var handler slog.Handler

	if os.Getenv("ENV") == "production" {
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	} else {
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level:       slog.LevelInfo,
			ReplaceAttr: replaceTimeAttr,
			AddSource:   true,
		})
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

func replaceTimeAttr(groups []string, a slog.Attr) slog.Attr {
	if a.Key == slog.TimeKey && len(groups) == 0 {
		return slog.String("time", a.Value.Time().Local().Format("2006-01-02 15:04:05"))
	}
	return a
}
