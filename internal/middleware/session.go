package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/inteduweb-admin/internal/service"
	"github.com/noah-isme/inteduweb-admin/pkg/config"
)

// ContextWorkspaceKey is the gin context key holding the session workspace.
const ContextWorkspaceKey = "workspace"

type workspaceSource interface {
	Acquire(id string) (*service.Workspace, bool)
}

// Session binds every request to the workspace named by the session cookie,
// starting a new one when the cookie is missing or expired.
func Session(sessions workspaceSource, cfg config.SessionConfig) gin.HandlerFunc {
	name := cfg.CookieName
	if name == "" {
		name = "inteduweb_session"
	}
	return func(c *gin.Context) {
		id, _ := c.Cookie(name)
		ws, created := sessions.Acquire(id)
		if created {
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(name, ws.ID, 0, "/", "", cfg.SecureCookie, true)
		}
		c.Set(ContextWorkspaceKey, ws)
		c.Next()
	}
}

// WorkspaceFrom returns the workspace attached by Session.
func WorkspaceFrom(c *gin.Context) *service.Workspace {
	value, exists := c.Get(ContextWorkspaceKey)
	if !exists {
		return nil
	}
	ws, ok := value.(*service.Workspace)
	if !ok {
		return nil
	}
	return ws
}
