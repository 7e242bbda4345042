package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/itsDrac/authgate/internal/handlers"
	"go.uber.org/zap"
)

const (
	MsgUnauthorized    = "Unauthorized - Access Denied"
	MsgAccessDenied    = "Access Denied"
	MsgTokenExpired    = "Token has expired"
	MsgInvalidToken    = "Invalid token"
	MsgUserIDRequired  = "User ID is required"
	MsgTooManyRequests = "Too many requests from this IP, please try again later"
	MsgInternal        = "Internal Server Error"
	MsgBodyTooLarge    = "Request body too large"
)

type AuthErrorKind int

const (
	KindUnauthorized AuthErrorKind = iota
	KindTokenExpired
	KindSignatureExpired
	KindTooManyRequests
	KindInternal
	KindBodyTooLarge
)

func (k AuthErrorKind) String() string {
	switch k {
	case KindUnauthorized:
		return "unauthorized"
	case KindTokenExpired:
		return "token_expired"
	case KindSignatureExpired:
		return "signature_expired"
	case KindTooManyRequests:
		return "too_many_requests"
	case KindInternal:
		return "internal"
	case KindBodyTooLarge:
		return "body_too_large"
	default:
		return "unknown"
	}
}

// AuthError is the typed outcome of a failing layer. Message is what the
// client sees; Err is the internal cause and is only logged.
type AuthError struct {
	Kind       AuthErrorKind
	Message    string
	Err        error
	RetryAfter time.Duration
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *AuthError) Unwrap() error { return e.Err }

func (e *AuthError) Status() int {
	switch e.Kind {
	case KindTooManyRequests:
		return http.StatusTooManyRequests
	case KindInternal:
		return http.StatusInternalServerError
	case KindBodyTooLarge:
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusUnauthorized
	}
}

func (e *AuthError) Code() string {
	switch {
	case e.Kind == KindTokenExpired:
		return handlers.ErrTokenExpired.Error()
	case e.Kind == KindTooManyRequests:
		return handlers.ErrTooMany.Error()
	case e.Kind == KindInternal:
		return handlers.ErrInternalServer.Error()
	case e.Kind == KindBodyTooLarge:
		return handlers.ErrBodyTooLarge.Error()
	case e.Message == MsgInvalidToken:
		return handlers.ErrInvalidToken.Error()
	default:
		return handlers.ErrAuthFailed.Error()
	}
}

func unauthorized(message string, err error) *AuthError {
	return &AuthError{Kind: KindUnauthorized, Message: message, Err: err}
}

func internal(err error) *AuthError {
	return &AuthError{Kind: KindInternal, Message: MsgInternal, Err: err}
}

// Layer is one step of request authentication. It either returns the
// (possibly enriched) request or a failure that ends the chain.
type Layer interface {
	Check(r *http.Request) (*http.Request, *AuthError)
}

// LayerFunc adapts a plain function to Layer.
type LayerFunc func(r *http.Request) (*http.Request, *AuthError)

func (f LayerFunc) Check(r *http.Request) (*http.Request, *AuthError) { return f(r) }

// AuthChain runs its layers in order; all must pass for the handler to run.
type AuthChain struct {
	layers []Layer
}

func Chain(layers ...Layer) AuthChain {
	return AuthChain{layers: append([]Layer(nil), layers...)}
}

// Append returns a new chain with more layers after the existing ones.
func (c AuthChain) Append(layers ...Layer) AuthChain {
	out := make([]Layer, 0, len(c.layers)+len(layers))
	out = append(out, c.layers...)
	out = append(out, layers...)
	return AuthChain{layers: out}
}

func (c AuthChain) Then(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r = r.WithContext(context.WithValue(r.Context(), responseHeaderKey{}, w.Header()))
		for _, l := range c.layers {
			next, aerr := l.Check(r)
			if aerr != nil {
				writeAuthError(w, r, aerr)
				return
			}
			r = next
		}
		h.ServeHTTP(w, r)
	})
}

type responseHeaderKey struct{}

// responseHeader gives a layer the header map of the response being built,
// or nil outside a chain.
func responseHeader(r *http.Request) http.Header {
	h, _ := r.Context().Value(responseHeaderKey{}).(http.Header)
	return h
}

func (c AuthChain) ThenFunc(fn http.HandlerFunc) http.Handler {
	return c.Then(fn)
}

func writeAuthError(w http.ResponseWriter, r *http.Request, aerr *AuthError) {
	fields := []any{
		"kind", aerr.Kind.String(),
		"method", r.Method,
		"path", r.URL.Path,
		"request_id", chimw.GetReqID(r.Context()),
	}
	if aerr.Err != nil {
		fields = append(fields, "error", aerr.Err)
	}
	if aerr.Kind == KindInternal {
		zap.S().Errorw("[AUTH] request rejected -> ", fields...)
	} else {
		zap.S().Warnw("[AUTH] request rejected -> ", fields...)
	}

	if aerr.RetryAfter > 0 {
		secs := int((aerr.RetryAfter + time.Second - 1) / time.Second)
		w.Header().Set("Retry-After", strconv.Itoa(secs))
	}
	handlers.RespondErrorJSON(w, r, aerr.Status(), aerr.Code(), aerr.Message, nil)
}
