package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/MyResellApp/MyResell/api/responses"
	"github.com/MyResellApp/MyResell/internal/session"
	pkgerrors "github.com/MyResellApp/MyResell/pkg/errors"
	"github.com/MyResellApp/MyResell/pkg/logger"
)

type sessionResolver interface {
	Resolve(ctx context.Context, userID uuid.UUID) (*session.Snapshot, error)
}

// RequireAdmin gates a subtree on the administrator allow-list. A missing
// identity reads as unauthenticated; a resolved non-admin reads as forbidden.
func RequireAdmin(store sessionResolver, logg *logger.Logger) func(http.Handler) http.Handler {
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
			if !snapshot.IsAdmin {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "admin access required"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
