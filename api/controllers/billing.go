package controllers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/MyResellApp/MyResell/api/responses"
	"github.com/MyResellApp/MyResell/internal/payments"
	"github.com/MyResellApp/MyResell/internal/subscriptions"
	"github.com/MyResellApp/MyResell/pkg/db/models"
	"github.com/MyResellApp/MyResell/pkg/logger"
)

type paymentLister interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Payment, error)
}

type subscriptionLister interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Subscription, error)
}

// PaymentHistory returns the caller's payment ledger, newest first.
func PaymentHistory(repo paymentLister, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requestUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := repo.ListByUser(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out := make([]payments.PaymentDTO, 0, len(rows))
		for i := range rows {
			out = append(out, *payments.FromModel(&rows[i]))
		}
		responses.WriteSuccess(w, out)
	}
}

// SubscriptionHistory returns the caller's subscriptions, newest first.
func SubscriptionHistory(repo subscriptionLister, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requestUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := repo.ListByUser(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out := make([]subscriptions.SubscriptionDTO, 0, len(rows))
		for i := range rows {
			out = append(out, *subscriptions.FromModel(&rows[i]))
		}
		responses.WriteSuccess(w, out)
	}
}
