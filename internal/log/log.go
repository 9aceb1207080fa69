// Package log provides logging helpers shared across the module.
package log

import (
	"context"
	"log/slog"
	"time"

	"github.com/timtebeek/maven-resolver/repository"
)

// Realm returns a base logger scoped to one part of the module. All log
// output of that part carries the realm attribute.
func Realm(realm string) *slog.Logger {
	return slog.With(slog.String("realm", realm))
}

// Operation logs an operation with timing and error handling. The returned
// function is meant to be deferred with the operation's error.
func Operation(ctx context.Context, logger *slog.Logger, operation string, fields ...slog.Attr) func(error) {
	start := time.Now()
	attrs := make([]any, 0, len(fields)+1)
	attrs = append(attrs, slog.String("operation", operation))
	for _, field := range fields {
		attrs = append(attrs, field)
	}
	logger = logger.With(attrs...)
	logger.Log(ctx, slog.LevelDebug, "starting operation")
	return func(err error) {
		if err != nil {
			logger.Log(ctx, slog.LevelError, "operation failed", slog.Duration("duration", time.Since(start)), slog.String("error", err.Error()))
		} else {
			logger.Log(ctx, slog.LevelDebug, "operation completed", slog.Duration("duration", time.Since(start)))
		}
	}
}

// RepositoryLogAttr creates a log attribute identifying a remote repository.
func RepositoryLogAttr(repo *repository.Remote) slog.Attr {
	return slog.Group("repository",
		slog.String("id", repo.ID),
		slog.String("url", repo.URL),
	)
}
