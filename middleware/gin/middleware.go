package ginmw

import (
	"github.com/gin-gonic/gin"

	"github.com/reoring/skema"
	"github.com/reoring/skema/middleware"
)

// ValidateJSON parses the incoming JSON body using schema s with opt (or
// middleware.DefaultParseOpt when opt is the zero value), stores the
// normalized value in the request context, and on failure aborts with 422
// and the Issues payload.
func ValidateJSON(s *skema.Schema, opt skema.ParseOpt) gin.HandlerFunc {
	if opt == (skema.ParseOpt{}) {
		opt = middleware.DefaultParseOpt()
	}
	return func(c *gin.Context) {
		v, err := middleware.Parse(c.Request, s, opt)
		if err != nil {
			iss, _ := skema.AsIssues(err)
			middleware.WriteIssues(c.Writer, c.Request, iss)
			c.Abort()
			return
		}
		c.Request = c.Request.WithContext(middleware.ContextWithValue(c.Request.Context(), v))
		c.Next()
	}
}

// GetValue fetches the normalized value from gin.Context.
func GetValue(c *gin.Context) (any, bool) {
	return middleware.ValueFromContext(c.Request.Context())
}
