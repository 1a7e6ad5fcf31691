package jwt

import (
	"net/http"
	"strings"
)

// TokenExtractorFunc pulls a raw token out of a request.
type TokenExtractorFunc func(r *http.Request) (string, error)

// ErrorHandlerFunc writes the response for a rejected request.
type ErrorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)

type MiddlewareConfig struct {
	Service      *Service
	Extractor    TokenExtractorFunc // defaults to BearerTokenExtractor
	ErrorHandler ErrorHandlerFunc   // defaults to a plain 401
}

// Middleware verifies bearer tokens with service.
func Middleware(service *Service) func(next http.Handler) http.Handler {
	return MiddlewareWithConfig(MiddlewareConfig{Service: service})
}

func MiddlewareWithConfig(config MiddlewareConfig) func(next http.Handler) http.Handler {
	if config.Extractor == nil {
		config.Extractor = BearerTokenExtractor
	}
	if config.ErrorHandler == nil {
		config.ErrorHandler = func(w http.ResponseWriter, _ *http.Request, _ error) {
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := config.Extractor(r)
			if err != nil {
				config.ErrorHandler(w, r, err)
				return
			}

			claims, err := config.Service.Parse(token)
			if err != nil {
				config.ErrorHandler(w, r, err)
				return
			}

			ctx := SetToken(r.Context(), token)
			ctx = SetClaims(ctx, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// BearerTokenExtractor reads "Authorization: Bearer <token>". The scheme is matched
// case-insensitively.
func BearerTokenExtractor(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", ErrMissingToken
	}

	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", ErrInvalidToken
	}
	return strings.TrimSpace(token), nil
}
