package middleware

import (
	"net/http"
	"strings"

	goToken "github.com/MrEthical07/goToken"
	"github.com/rs/zerolog"
)

// Verifier turns a token string into a verified token of subject type S.
// *goToken.Manager[S] implements it.
type Verifier[S goToken.Subject] interface {
	Verify(token string) (goToken.Decoded[S], error)
}

// VerifierFunc adapts a function to Verifier.
type VerifierFunc[S goToken.Subject] func(token string) (goToken.Decoded[S], error)

// Verify implements Verifier.
func (f VerifierFunc[S]) Verify(token string) (goToken.Decoded[S], error) {
	return f(token)
}

// ErrorHandler writes the response for a rejected request. err is nil when no
// token was presented.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

type config struct {
	cookie  string
	logger  zerolog.Logger
	onError ErrorHandler
}

// Option configures Require.
type Option func(*config)

// WithCookie also accepts the token from the named cookie when no bearer header
// is present.
func WithCookie(name string) Option {
	return func(c *config) {
		c.cookie = name
	}
}

// WithLogger logs rejected requests at debug level.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithErrorHandler replaces the default 401 response.
func WithErrorHandler(h ErrorHandler) Option {
	return func(c *config) {
		if h != nil {
			c.onError = h
		}
	}
}

func unauthorized(w http.ResponseWriter, _ *http.Request, _ error) {
	http.Error(w, "unauthorized", http.StatusUnauthorized)
}

// Require returns middleware that rejects requests without a valid token of
// subject type S and otherwise stores the decoded token in the request context.
func Require[S goToken.Subject](verifier Verifier[S], opts ...Option) func(http.Handler) http.Handler {
	cfg := config{
		logger:  zerolog.Nop(),
		onError: unauthorized,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if verifier == nil {
				cfg.onError(w, r, nil)
				return
			}

			token, source, ok := tokenFromRequest(r, cfg.cookie)
			if !ok {
				cfg.logger.Debug().
					Str("path", r.URL.Path).
					Msg("request rejected: no token")
				cfg.onError(w, r, nil)
				return
			}

			dec, err := verifier.Verify(token)
			if err != nil {
				cfg.logger.Debug().
					Err(err).
					Str("path", r.URL.Path).
					Str("source", source).
					Bool("expired", goToken.IsExpired(err)).
					Msg("request rejected: token verification failed")
				cfg.onError(w, r, err)
				return
			}

			ctx := goToken.WithDecoded(r.Context(), dec)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SubjectFromRequest returns the subject stored by Require.
func SubjectFromRequest[S goToken.Subject](r *http.Request) (S, bool) {
	return goToken.SubjectFromContext[S](r.Context())
}

func tokenFromRequest(r *http.Request, cookie string) (string, string, bool) {
	if token, ok := bearerToken(r.Header.Get("Authorization")); ok {
		return token, "header", true
	}
	if cookie == "" {
		return "", "", false
	}
	c, err := r.Cookie(cookie)
	if err != nil || c.Value == "" {
		return "", "", false
	}
	return c.Value, "cookie", true
}

func bearerToken(value string) (string, bool) {
	const bearer = "Bearer "
	if !strings.HasPrefix(value, bearer) {
		return "", false
	}

	token := value[len(bearer):]
	if token == "" {
		return "", false
	}

	return token, true
}
