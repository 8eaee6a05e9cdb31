package http

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
)

// AccessLogMiddleware writes one structured line per request through the request logger.
// Server errors log at Error, client errors at Warn, the rest at Info.
func AccessLogMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		began := time.Now()

		err := c.Next()

		status := c.Response().StatusCode()
		attrs := append(make([]slog.Attr, 0, 8),
			slog.String("method", c.Method()),
			slog.String("route", c.Route().Path),
			slog.String("path", c.Path()),
			slog.Int("status", status),
			slog.Duration("took", time.Since(began)),
			slog.Int("bytes_in", len(c.Request().Body())),
			slog.Int("bytes_out", len(c.Response().Body())),
		)
		if err != nil {
			attrs = append(attrs, slog.Any("error", err))
		}

		ctx := c.UserContext()
		LoggerFromCtx(ctx).LogAttrs(ctx, accessLevel(status, err), "http request", attrs...)
		return err
	}
}

func accessLevel(status int, err error) slog.Level {
	switch {
	case err != nil, status >= fiber.StatusInternalServerError:
		return slog.LevelError
	case status >= fiber.StatusBadRequest:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}
