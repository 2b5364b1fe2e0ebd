package shared

import "context"

type sessionContextKey struct{}

// ContextWithSession stores the session in context.
func ContextWithSession(ctx context.Context, sess *Session) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, sess)
}

// SessionFromContext extracts the session from context.
func SessionFromContext(ctx context.Context) *Session {
	sess, _ := ctx.Value(sessionContextKey{}).(*Session)
	return sess
}

// PrincipalFromContext resolves the authenticated principal of the request
// session. ok is false for anonymous sessions.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	sess := SessionFromContext(ctx)
	if sess == nil {
		return Principal{}, false
	}
	return sess.Principal()
}
