package middleware

import (
	"context"

	"connectrpc.com/connect"

	"github.com/mmynk/tripledger/internal/auth"
)

type callerKey struct{}

// Caller is the authenticated participant behind a request.
type Caller struct {
	UserID string
	Email  string
}

// TokenValidator turns a bearer token into claims. *auth.JWTManager implements it.
type TokenValidator interface {
	Validate(token string) (*auth.Claims, error)
}

// WithCaller returns a context carrying c as the authenticated caller.
func WithCaller(ctx context.Context, c Caller) context.Context {
	return context.WithValue(ctx, callerKey{}, c)
}

// WithUserID is WithCaller for callers known only by id.
func WithUserID(ctx context.Context, userID string) context.Context {
	return WithCaller(ctx, Caller{UserID: userID})
}

// CallerFrom returns the caller stored in ctx, if any.
func CallerFrom(ctx context.Context) (Caller, bool) {
	c, ok := ctx.Value(callerKey{}).(Caller)
	return c, ok
}

// GetUserID returns the caller's id, or "" for anonymous requests.
func GetUserID(ctx context.Context) string {
	c, _ := CallerFrom(ctx)
	return c.UserID
}

// GetEmail returns the caller's email claim, or "".
func GetEmail(ctx context.Context) string {
	c, _ := CallerFrom(ctx)
	return c.Email
}

// RequireAuth rejects requests without a valid bearer token and stores the
// token's caller in the request context.
func RequireAuth(tokens TokenValidator) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			token, err := auth.BearerToken(req.Header().Get("Authorization"))
			if err != nil {
				return nil, connect.NewError(connect.CodeUnauthenticated, err)
			}

			claims, err := tokens.Validate(token)
			if err != nil {
				return nil, connect.NewError(connect.CodeUnauthenticated, err)
			}

			return next(WithCaller(ctx, Caller{UserID: claims.UserID, Email: claims.Email}), req)
		}
	}
}
