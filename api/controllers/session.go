package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/MyResellApp/MyResell/api/middleware"
	"github.com/MyResellApp/MyResell/api/responses"
	"github.com/MyResellApp/MyResell/api/validators"
	"github.com/MyResellApp/MyResell/internal/auth"
	"github.com/MyResellApp/MyResell/internal/entitlement"
	"github.com/MyResellApp/MyResell/internal/session"
	"github.com/MyResellApp/MyResell/internal/subscriptions"
	"github.com/MyResellApp/MyResell/internal/users"
	pkgerrors "github.com/MyResellApp/MyResell/pkg/errors"
	"github.com/MyResellApp/MyResell/pkg/logger"
)

type meResponse struct {
	User         *users.UserDTO                 `json:"user"`
	Subscription *subscriptions.SubscriptionDTO `json:"subscription"`
	IsAdmin      bool                           `json:"is_admin"`
	Tier         string                         `json:"tier"`
}

// SessionMe returns the resolved session snapshot for the caller.
func SessionMe(store *session.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requestUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		snapshot, err := store.Resolve(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, meResponse{
			User:         snapshot.User,
			Subscription: snapshot.Subscription,
			IsAdmin:      snapshot.IsAdmin,
			Tier:         entitlement.TierOf(snapshot, time.Now().UTC()).String(),
		})
	}
}

// SessionUpdateProfile mutates the caller's profile and invalidates the
// cached snapshot so every node re-reads it.
func SessionUpdateProfile(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requestUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body auth.UpdateProfileRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		user, err := svc.UpdateProfile(r.Context(), userID, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, user)
	}
}

func requestUserID(r *http.Request) (uuid.UUID, error) {
	userID, err := uuid.Parse(middleware.UserIDFromContext(r.Context()))
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials")
	}
	return userID, nil
}
