package goToken

import "context"

type decodedContextKey[S Subject] struct{}

// WithDecoded attaches a verified token to ctx. Each subject type has its own
// key, so tokens of different subject types never shadow each other.
func WithDecoded[S Subject](ctx context.Context, token Decoded[S]) context.Context {
	return context.WithValue(ctx, decodedContextKey[S]{}, token)
}

// DecodedFromContext returns the token attached by WithDecoded for subject type S.
func DecodedFromContext[S Subject](ctx context.Context) (Decoded[S], bool) {
	if ctx == nil {
		return Decoded[S]{}, false
	}

	token, ok := ctx.Value(decodedContextKey[S]{}).(Decoded[S])
	return token, ok
}

// SubjectFromContext is DecodedFromContext followed by Subject.
func SubjectFromContext[S Subject](ctx context.Context) (S, bool) {
	token, ok := DecodedFromContext[S](ctx)
	if !ok {
		var zero S
		return zero, false
	}
	return token.Subject(), true
}
