package server

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/labstack/echo/v4"

	"TrendScope/internal/logger"
)

// Recover turns handler panics into a 500 envelope.
func Recover(log *logger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			defer func() {
				if r := recover(); r != nil {
					err, ok := r.(error)
					if !ok {
						err = fmt.Errorf("%v", r)
					}
					log.Error("panic in handler",
						logger.Error(err),
						logger.String("stack", string(debug.Stack())))
					_ = DataResponse(c, http.StatusInternalServerError, "Something went wrong")
				}
			}()
			return next(c)
		}
	}
}

// RequestLogging logs one line per request.
func RequestLogging(log *logger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			start := time.Now()

			err := next(c)

			log.Info("http request",
				logger.String("method", req.Method),
				logger.String("uri", req.RequestURI),
				logger.String("remote", req.RemoteAddr),
				logger.Int("status", c.Response().Status),
				logger.Duration("latency", time.Since(start)))
			return err
		}
	}
}
