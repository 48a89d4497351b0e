package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
)

const actorKey = contextKey("actorID")

// DefaultActor attributes changes made without an explicit caller identity.
const DefaultActor = "system"

// ActorMiddleware records the calling identity for audit attribution.
// Authentication lives outside this service; upstream infrastructure
// forwards the verified identity in the X-Actor-ID header.
func ActorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := c.GetHeader("X-Actor-ID")
		if actor == "" {
			actor = DefaultActor
		}
		ctx := context.WithValue(c.Request.Context(), actorKey, actor)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// GetActorFromCtx retrieves the audit actor from the context.
func GetActorFromCtx(ctx context.Context) string {
	actor, ok := ctx.Value(actorKey).(string)
	if !ok || actor == "" {
		return DefaultActor
	}
	return actor
}
