package handlers

import (
	"maxwellmaster/service"

	"github.com/labstack/echo/v4"
	"golang.org/x/sync/semaphore"
)

// NewWorkerLimiter bounds the number of requests handled at once. A request waits for a slot
// until its context ends.
func NewWorkerLimiter(workers int) echo.MiddlewareFunc {
	sem := semaphore.NewWeighted(int64(workers))
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if err := sem.Acquire(c.Request().Context(), 1); err != nil {
				return service.NewInternalServerError("request abandoned while waiting for a worker", err)
			}
			defer sem.Release(1)
			return next(c)
		}
	}
}
