package middleware

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
)

// RequestLog writes one zerolog event per request. 5xx responses log at
// error, 4xx at warn, everything else at info.
func RequestLog(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			var event *zerolog.Event
			switch {
			case v.Status >= 500:
				event = log.Error().Err(v.Error)
			case v.Status >= 400:
				event = log.Warn()
			default:
				event = log.Info()
			}

			if userID, ok := c.Get(UserIDKey).(string); ok {
				event = event.Str("user_id", userID)
			}

			event.
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Str("remote_ip", v.RemoteIP).
				Msg("request")
			return nil
		},
	})
}
