package controllers

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/MyResellApp/MyResell/api/responses"
	"github.com/MyResellApp/MyResell/api/validators"
	"github.com/MyResellApp/MyResell/internal/orders"
	"github.com/MyResellApp/MyResell/internal/plans"
	"github.com/MyResellApp/MyResell/internal/products"
	"github.com/MyResellApp/MyResell/internal/users"
	"github.com/MyResellApp/MyResell/pkg/db/models"
	"github.com/MyResellApp/MyResell/pkg/enums"
	pkgerrors "github.com/MyResellApp/MyResell/pkg/errors"
	"github.com/MyResellApp/MyResell/pkg/logger"
	"github.com/MyResellApp/MyResell/pkg/pagination"
)

type createPlanRequest struct {
	Name          string          `json:"name" validate:"required"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price" validate:"required"`
	Currency      string          `json:"currency"`
	Features      []string        `json:"features"`
	StripePriceID *string         `json:"stripe_price_id"`
}

type updatePlanRequest struct {
	Name          *string          `json:"name"`
	Description   *string          `json:"description"`
	Price         *decimal.Decimal `json:"price"`
	Currency      *string          `json:"currency"`
	Features      *[]string        `json:"features"`
	StripePriceID *string          `json:"stripe_price_id"`
}

// AdminPlanCreate adds a plan to the catalog.
func AdminPlanCreate(svc plans.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body createPlanRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		plan, err := svc.Create(r.Context(), plans.CreatePlanDTO{
			Name:          body.Name,
			Description:   body.Description,
			Price:         body.Price,
			Currency:      body.Currency,
			Features:      body.Features,
			StripePriceID: body.StripePriceID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, plan)
	}
}

func AdminPlanUpdate(svc plans.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathUUID(chi.URLParam(r, "planId"), "planId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updatePlanRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		plan, err := svc.Update(r.Context(), id, plans.UpdatePlanDTO{
			Name:          body.Name,
			Description:   body.Description,
			Price:         body.Price,
			Currency:      body.Currency,
			Features:      body.Features,
			StripePriceID: body.StripePriceID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, plan)
	}
}

func AdminPlanDelete(svc plans.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathUUID(chi.URLParam(r, "planId"), "planId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

type createProductRequest struct {
	Name        string          `json:"name" validate:"required"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price" validate:"required"`
	ImageURL    *string         `json:"image_url"`
	SupplierURL *string         `json:"supplier_url"`
	InStock     *bool           `json:"in_stock"`
}

type updateProductRequest struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Category    *string          `json:"category"`
	Price       *decimal.Decimal `json:"price"`
	ImageURL    *string          `json:"image_url"`
	SupplierURL *string          `json:"supplier_url"`
	InStock     *bool            `json:"in_stock"`
}

func AdminProductCreate(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body createProductRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Create(r.Context(), products.CreateProductDTO{
			Name:        body.Name,
			Description: body.Description,
			Category:    body.Category,
			Price:       body.Price,
			ImageURL:    body.ImageURL,
			SupplierURL: body.SupplierURL,
			InStock:     body.InStock,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

func AdminProductUpdate(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathUUID(chi.URLParam(r, "productId"), "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateProductRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Update(r.Context(), id, products.UpdateProductDTO{
			Name:        body.Name,
			Description: body.Description,
			Category:    body.Category,
			Price:       body.Price,
			ImageURL:    body.ImageURL,
			SupplierURL: body.SupplierURL,
			InStock:     body.InStock,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

func AdminProductDelete(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathUUID(chi.URLParam(r, "productId"), "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

type userLister interface {
	List(ctx context.Context, limit, offset int) ([]models.User, error)
}

// AdminUserList pages through registered accounts, newest first.
func AdminUserList(repo userLister, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		offset, err := validators.ParseQueryInt(r, "offset", 0, 0, 1<<20)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := repo.List(r.Context(), limit, offset)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out := make([]users.UserDTO, 0, len(rows))
		for i := range rows {
			out = append(out, *users.FromModel(&rows[i]))
		}
		responses.WriteSuccess(w, out)
	}
}

type adminToggleRequest struct {
	IsAdmin bool    `json:"is_admin"`
	Note    *string `json:"note,omitempty"`
}

type allowListEditor interface {
	IsAdmin(ctx context.Context, userID uuid.UUID) (bool, error)
	Grant(ctx context.Context, userID uuid.UUID, note *string) error
	Revoke(ctx context.Context, userID uuid.UUID) error
}

type userFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type sessionInvalidator interface {
	Invalidate(ctx context.Context, userID uuid.UUID)
}

// AdminUserToggle grants or revokes allow-list membership for a user and
// drops their cached session so the change takes effect on the next request.
func AdminUserToggle(allowList allowListEditor, finder userFinder, sessions sessionInvalidator, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := validators.ParsePathUUID(chi.URLParam(r, "userId"), "userId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body adminToggleRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if _, err := finder.FindByID(r.Context(), userID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "user not found"))
				return
			}
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user"))
			return
		}

		listed, err := allowList.IsAdmin(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check allow-list"))
			return
		}

		switch {
		case body.IsAdmin && !listed:
			err = allowList.Grant(r.Context(), userID, body.Note)
		case !body.IsAdmin && listed:
			err = allowList.Revoke(r.Context(), userID)
		}
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update allow-list"))
			return
		}

		if sessions != nil {
			sessions.Invalidate(r.Context(), userID)
		}
		responses.WriteSuccess(w, map[string]any{"user_id": userID, "is_admin": body.IsAdmin})
	}
}

type orderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// AdminOrderStatus transitions an order through its fulfillment states.
func AdminOrderStatus(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := validators.ParsePathUUID(chi.URLParam(r, "orderId"), "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body orderStatusRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status := enums.OrderStatus(body.Status)
		if !status.IsValid() {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "unknown order status"))
			return
		}

		if err := svc.UpdateStatus(r.Context(), orderID, status); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "updated"})
	}
}
