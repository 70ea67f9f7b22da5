package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/MyResellApp/MyResell/api/responses"
	"github.com/MyResellApp/MyResell/internal/entitlement"
	pkgerrors "github.com/MyResellApp/MyResell/pkg/errors"
	"github.com/MyResellApp/MyResell/pkg/logger"
)

// RequireTier gates a subtree on an active subscription at or above the given
// tier. Expired or missing subscriptions are refused, never silently allowed.
func RequireTier(store sessionResolver, required entitlement.Tier, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := uuid.Parse(UserIDFromContext(r.Context()))
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			snapshot, err := store.Resolve(r.Context(), userID)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}

			if !entitlement.IsEntitled(snapshot, required, time.Now().UTC()) {
				msg := "active subscription required"
				if snapshot.HasActiveSubscription() {
					msg = "plan upgrade required"
				}
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, msg))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
