package middleware

import (
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"deepthinker-backend/pkg/auth"
	"deepthinker-backend/pkg/common"
)

// Authenticator builds the auth middleware variants from shared pieces
type Authenticator struct {
	validator   *auth.JWTValidator
	ipLimiter   *auth.IPRateLimiter
	userLimiter *auth.UserRateLimiter
	logger      *zap.Logger
}

// NewAuthenticator creates an Authenticator
func NewAuthenticator(validator *auth.JWTValidator, ipLimiter *auth.IPRateLimiter, userLimiter *auth.UserRateLimiter, logger *zap.Logger) *Authenticator {
	return &Authenticator{
		validator:   validator,
		ipLimiter:   ipLimiter,
		userLimiter: userLimiter,
		logger:      logger,
	}
}

// RequireUser admits only requests carrying a valid bearer token
func (a *Authenticator) RequireUser(next http.Handler) http.Handler {
	return a.authenticate(next, false)
}

// AllowSession admits bearer tokens and, failing that, anonymous
// sessions identified by X-Session-ID. Session users get a synthetic
// user ID so downstream code can meter them on the credit tier.
func (a *Authenticator) AllowSession(next http.Handler) http.Handler {
	return a.authenticate(next, true)
}

func (a *Authenticator) authenticate(next http.Handler, allowSession bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientIP := getClientIP(r)
		if allowed, _ := a.ipLimiter.Allow(r.Context(), clientIP); !allowed {
			common.RespondError(w, http.StatusTooManyRequests, "RATE_LIMIT", "too many requests")
			return
		}

		user, err := a.resolveUser(r, allowSession)
		if err != nil {
			status := http.StatusUnauthorized
			message := "invalid authentication token"
			switch {
			case errors.Is(err, auth.ErrMissingToken):
				message = "missing authentication token"
			case errors.Is(err, auth.ErrExpiredToken):
				message = "authentication token expired"
			}
			a.logger.Warn("request rejected",
				zap.String("path", r.URL.Path),
				zap.String("ip", clientIP),
				zap.Error(err),
			)
			common.RespondError(w, status, "UNAUTHORIZED", message)
			return
		}

		if allowed, _ := a.userLimiter.Allow(r.Context(), user.UserID); !allowed {
			common.RespondError(w, http.StatusTooManyRequests, "RATE_LIMIT", "too many requests")
			return
		}

		ctx := auth.SetUserInContext(r.Context(), user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (a *Authenticator) resolveUser(r *http.Request, allowSession bool) (*auth.UserContext, error) {
	header := r.Header.Get("Authorization")
	if header == "" && allowSession {
		if sessionID := r.Header.Get("X-Session-ID"); sessionID != "" {
			return &auth.UserContext{UserID: auth.SessionUserID(sessionID)}, nil
		}
	}

	token, err := auth.ExtractBearerToken(header)
	if err != nil {
		return nil, err
	}

	claims, err := a.validator.Validate(token)
	if err != nil {
		return nil, err
	}

	return &auth.UserContext{
		UserID:     claims.UserID,
		Email:      claims.Email,
		ExternalID: claims.ExternalID,
	}, nil
}

// getClientIP extracts the originating client address, preferring the
// proxy headers set by API Gateway and load balancers
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		return strings.TrimSpace(parts[0])
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	addr := r.RemoteAddr
	if idx := strings.LastIndex(addr, ":"); idx != -1 {
		return addr[:idx]
	}
	return addr
}
