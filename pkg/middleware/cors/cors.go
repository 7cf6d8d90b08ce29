package cors

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Policy describes which origins may read the JSON endpoints and under which
// path prefixes the headers are emitted. HTML views never get CORS headers.
type Policy struct {
	AllowedOrigins []string
	PathPrefixes   []string
}

// New returns a CORS middleware scoped to the policy's path prefixes. An empty
// origin list allows any origin; an empty prefix list covers every path.
func New(p Policy) gin.HandlerFunc {
	origins := make(map[string]struct{}, len(p.AllowedOrigins))
	for _, origin := range p.AllowedOrigins {
		origins[strings.TrimRight(origin, "/")] = struct{}{}
	}

	return func(c *gin.Context) {
		if !p.covers(c.Request.URL.Path) {
			c.Next()
			return
		}

		h := c.Writer.Header()
		h.Set("Vary", "Origin")
		if origin := c.GetHeader("Origin"); origin != "" {
			if allowed(origins, origin) {
				h.Set("Access-Control-Allow-Origin", origin)
				h.Set("Access-Control-Allow-Credentials", "true")
			}
		} else if len(origins) == 0 {
			h.Set("Access-Control-Allow-Origin", "*")
		}
		h.Set("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")
		h.Set("Access-Control-Expose-Headers", "X-Request-ID")
		h.Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		h.Set("Access-Control-Max-Age", "600")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func (p Policy) covers(path string) bool {
	if len(p.PathPrefixes) == 0 {
		return true
	}
	for _, prefix := range p.PathPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

func allowed(origins map[string]struct{}, origin string) bool {
	if len(origins) == 0 {
		return true
	}
	_, ok := origins[strings.TrimRight(origin, "/")]
	return ok
}
