package api

import (
	"context"

	"github.com/rpupo63/portfolio-blog-backend/auth"
)

type keyType string

const sessionKey keyType = "session"

// ctxWithSession adds the caller's session to the context
func ctxWithSession(ctx context.Context, sess auth.Session) context.Context {
	return context.WithValue(ctx, sessionKey, sess)
}

// ctxGetSession returns the caller's session, or an anonymous one when the
// session middleware did not run.
func ctxGetSession(ctx context.Context) auth.Session {
	sess, _ := ctx.Value(sessionKey).(auth.Session)
	return sess
}
