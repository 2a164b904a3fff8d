package echomw

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/reoring/skema"
	"github.com/reoring/skema/middleware"
)

// ValidateJSON parses request JSON via schema s, stores the normalized value
// in the request context on success, or returns 422 with Issues when
// validation fails.
func ValidateJSON(s *skema.Schema, opt skema.ParseOpt) echo.MiddlewareFunc {
	if opt == (skema.ParseOpt{}) {
		opt = middleware.DefaultParseOpt()
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			v, err := middleware.Parse(c.Request(), s, opt)
			if err != nil {
				iss, _ := skema.AsIssues(err)
				return c.JSON(http.StatusUnprocessableEntity, middleware.ErrorPayload(iss))
			}
			ctx := middleware.ContextWithValue(c.Request().Context(), v)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

// GetValue fetches the normalized value from echo.Context.
func GetValue(c echo.Context) (any, bool) {
	return middleware.ValueFromContext(c.Request().Context())
}
