package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v84"
	"gorm.io/gorm"

	"github.com/MyResellApp/MyResell/internal/payments"
	"github.com/MyResellApp/MyResell/internal/session"
	"github.com/MyResellApp/MyResell/internal/subscriptions"
	"github.com/MyResellApp/MyResell/pkg/config"
	"github.com/MyResellApp/MyResell/pkg/db"
	"github.com/MyResellApp/MyResell/pkg/db/models"
	"github.com/MyResellApp/MyResell/pkg/enums"
	pkgerrors "github.com/MyResellApp/MyResell/pkg/errors"
	"github.com/MyResellApp/MyResell/pkg/logger"
	"github.com/MyResellApp/MyResell/pkg/metrics"
)

// subscriptionTerm is how long a settled subscription runs before renewal.
const subscriptionTerm = time.Hour * 24 * 30

// Service orchestrates the purchase flow: guard the inputs, hand off to the
// payment method, and settle durable records when the payment lands.
type Service interface {
	Begin(ctx context.Context, userID uuid.UUID, email string, req BeginRequest) (*BeginResponse, error)
	ConfirmSuccess(ctx context.Context, userID uuid.UUID, providerSessionID string) (*ConfirmResponse, error)
	Cancel(ctx context.Context, userID uuid.UUID, providerSessionID string) (*CancelResponse, error)
}

type planFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Plan, error)
}

type subscriptionRepo interface {
	Create(ctx context.Context, subscription *models.Subscription) error
	DeactivateActiveForUser(ctx context.Context, userID uuid.UUID) error
	FindByProviderRef(ctx context.Context, ref string) (*models.Subscription, error)
}

type paymentRepo interface {
	Create(ctx context.Context, payment *models.Payment) error
	FindByTransactionID(ctx context.Context, transactionID string) (*models.Payment, error)
}

type sessionRefresher interface {
	RefreshSubscription(ctx context.Context, userID uuid.UUID) (*session.Snapshot, error)
}

// ServiceParams bundles the dependencies required to build a checkout service.
type ServiceParams struct {
	Plans         planFinder
	Subscriptions subscriptionRepo
	Payments      paymentRepo
	Sessions      sessionRefresher
	Stripe        StripeCheckoutClient
	Simulator     SimulatedProvider
	StripeConfig  config.StripeConfig
	Checkout      config.CheckoutConfig
	Metrics       *metrics.CheckoutMetrics
	Logger        *logger.Logger
}

type service struct {
	plans     planFinder
	subs      subscriptionRepo
	payments  paymentRepo
	sessions  sessionRefresher
	stripe    StripeCheckoutClient
	simulator SimulatedProvider
	stripeCfg config.StripeConfig
	cfg       config.CheckoutConfig
	metrics   *metrics.CheckoutMetrics
	logg      *logger.Logger
}

// NewService constructs a checkout service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Plans == nil {
		return nil, fmt.Errorf("plans repository is required")
	}
	if params.Subscriptions == nil {
		return nil, fmt.Errorf("subscriptions repository is required")
	}
	if params.Payments == nil {
		return nil, fmt.Errorf("payments repository is required")
	}
	if params.Sessions == nil {
		return nil, fmt.Errorf("session store is required")
	}
	if params.Simulator == nil {
		return nil, fmt.Errorf("simulated provider is required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &service{
		plans:     params.Plans,
		subs:      params.Subscriptions,
		payments:  params.Payments,
		sessions:  params.Sessions,
		stripe:    params.Stripe,
		simulator: params.Simulator,
		stripeCfg: params.StripeConfig,
		cfg:       params.Checkout,
		metrics:   params.Metrics,
		logg:      params.Logger,
	}, nil
}

func (s *service) Begin(ctx context.Context, userID uuid.UUID, email string, req BeginRequest) (*BeginResponse, error) {
	if !req.PaymentMethod.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unsupported payment method")
	}

	plan, err := s.plans.FindByID(ctx, req.PlanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "plan not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load plan")
	}

	ctx = s.logContext(ctx, plan.ID, req.PaymentMethod)
	s.metrics.IncAttempt(string(req.PaymentMethod))

	switch req.PaymentMethod {
	case enums.PaymentMethodStripe:
		return s.beginStripe(ctx, userID, email, plan)
	case enums.PaymentMethodPaypal:
		return s.beginSimulated(ctx, userID, plan)
	case enums.PaymentMethodTransfer:
		return s.beginTransfer(ctx, userID, plan)
	default:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unsupported payment method")
	}
}

func (s *service) beginStripe(ctx context.Context, userID uuid.UUID, email string, plan *models.Plan) (*BeginResponse, error) {
	if s.stripe == nil || !s.stripeCfg.Configured() {
		return nil, pkgerrors.New(pkgerrors.CodeConfig, "stripe keys are not configured")
	}
	if plan.StripePriceID == nil || *plan.StripePriceID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeConfig, fmt.Sprintf("plan %s has no hosted price reference", plan.Name))
	}

	params := &stripe.CheckoutSessionCreateParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionCreateLineItemParams{{
			Price:    stripe.String(*plan.StripePriceID),
			Quantity: stripe.Int64(1),
		}},
		SuccessURL:        stripe.String(s.cfg.SuccessURL() + "?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:         stripe.String(s.cfg.CancelURL()),
		ClientReferenceID: stripe.String(userID.String()),
	}
	if email != "" {
		params.CustomerEmail = stripe.String(email)
	}
	params.AddMetadata("plan_id", plan.ID.String())

	sess, err := s.stripe.CreateSession(ctx, params)
	if err != nil {
		s.metrics.IncOutcome(string(enums.PaymentMethodStripe), "failed")
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create stripe checkout session")
	}

	s.logg.Info(ctx, fmt.Sprintf("stripe checkout session %s created", sess.ID))
	return &BeginResponse{
		Status:        StatusPaymentInProgress,
		PaymentMethod: enums.PaymentMethodStripe,
		RedirectURL:   sess.URL,
	}, nil
}

func (s *service) beginSimulated(ctx context.Context, userID uuid.UUID, plan *models.Plan) (*BeginResponse, error) {
	ref, err := s.simulator.Execute(ctx, userID, plan.ID)
	if err != nil {
		s.metrics.IncOutcome(string(enums.PaymentMethodPaypal), "failed")
		if errors.Is(err, ErrSimulatedDecline) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "paypal payment declined")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "paypal payment")
	}

	result, err := s.settle(ctx, userID, plan, enums.PaymentMethodPaypal, ref)
	if err != nil {
		return nil, err
	}
	return &BeginResponse{
		Status:        StatusSucceeded,
		PaymentMethod: enums.PaymentMethodPaypal,
		Result:        result,
	}, nil
}

func (s *service) beginTransfer(ctx context.Context, userID uuid.UUID, plan *models.Plan) (*BeginResponse, error) {
	// Transfers settle optimistically; funds are verified out of band.
	ref := "transfer_" + uuid.NewString()
	result, err := s.settle(ctx, userID, plan, enums.PaymentMethodTransfer, ref)
	if err != nil {
		return nil, err
	}
	return &BeginResponse{
		Status:        StatusSucceeded,
		PaymentMethod: enums.PaymentMethodTransfer,
		Result:        result,
	}, nil
}

func (s *service) ConfirmSuccess(ctx context.Context, userID uuid.UUID, providerSessionID string) (*ConfirmResponse, error) {
	if providerSessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session_id is required")
	}
	if s.stripe == nil || !s.stripeCfg.Configured() {
		return nil, pkgerrors.New(pkgerrors.CodeConfig, "stripe keys are not configured")
	}

	sess, err := s.stripe.GetSession(ctx, providerSessionID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load stripe checkout session")
	}
	if sess.ClientReferenceID != userID.String() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "checkout session belongs to a different account")
	}
	if sess.PaymentStatus == stripe.CheckoutSessionPaymentStatusUnpaid {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "payment has not completed")
	}

	planID, err := uuid.Parse(sess.Metadata["plan_id"])
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "checkout session has no plan reference")
	}
	plan, err := s.plans.FindByID(ctx, planID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "plan not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load plan")
	}

	ctx = s.logContext(ctx, plan.ID, enums.PaymentMethodStripe)
	result, err := s.settle(ctx, userID, plan, enums.PaymentMethodStripe, sess.ID)
	if err != nil {
		return nil, err
	}
	return &ConfirmResponse{Status: StatusSucceeded, Result: result}, nil
}

func (s *service) Cancel(ctx context.Context, userID uuid.UUID, providerSessionID string) (*CancelResponse, error) {
	// Nothing durable was written before settlement, so cancel only records
	// the outcome.
	s.metrics.IncOutcome(string(enums.PaymentMethodStripe), "cancelled")
	s.logg.Info(s.logg.WithUserID(ctx, userID.String()),
		fmt.Sprintf("checkout cancelled (session %s)", providerSessionID))
	return &CancelResponse{Status: StatusCancelled}, nil
}

// settle writes the durable records for a completed payment. The sequence is
// deliberate: the provider reference makes retries idempotent, and each write
// stands alone so a crash leaves rows that reconciliation can finish, never
// rows that grant unpaid access.
func (s *service) settle(ctx context.Context, userID uuid.UUID, plan *models.Plan, method enums.PaymentMethod, transactionID string) (*SettlementResult, error) {
	start := time.Now()

	existing, err := s.payments.FindByTransactionID(ctx, transactionID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check transaction")
	}
	if existing != nil {
		return s.settledResult(ctx, existing)
	}

	if err := s.subs.DeactivateActiveForUser(ctx, userID); err != nil {
		// Best effort: a stale active row is superseded by the newer one below.
		s.logg.Warn(ctx, fmt.Sprintf("deactivate prior subscriptions for %s: %v", userID, err))
	}

	now := time.Now().UTC()
	endDate := now.Add(subscriptionTerm)
	sub := &models.Subscription{
		UserID:      userID,
		PlanID:      plan.ID,
		Status:      enums.SubscriptionStatusActive,
		StartDate:   now,
		EndDate:     &endDate,
		ProviderRef: transactionID,
	}
	if err := s.subs.Create(ctx, sub); err != nil {
		s.metrics.IncOutcome(string(method), "failed")
		return nil, pkgerrors.Wrap(pkgerrors.CodeRecordWrite, err, "record subscription")
	}

	payment := &models.Payment{
		UserID:         userID,
		SubscriptionID: sub.ID,
		PlanID:         plan.ID,
		Amount:         plan.Price,
		Currency:       plan.Currency,
		PaymentMethod:  method,
		TransactionID:  transactionID,
		Status:         enums.PaymentStatusSucceeded,
	}
	if err := s.payments.Create(ctx, payment); err != nil {
		if db.IsUniqueViolation(err) {
			// A concurrent settle won the race; return its records.
			return s.settledResultByTransaction(ctx, transactionID)
		}
		s.metrics.IncOutcome(string(method), "failed")
		flagged := s.logg.WithFields(ctx, map[string]any{
			"needs_reconciliation": true,
			"transaction_id":       transactionID,
			"subscription_id":      sub.ID.String(),
		})
		s.logg.Error(flagged, "subscription recorded but payment write failed", err)
		return nil, pkgerrors.Wrap(pkgerrors.CodeRecordWrite, err, "record payment")
	}

	if _, err := s.sessions.RefreshSubscription(ctx, userID); err != nil {
		// The snapshot reloads on the next resolve; settlement already stands.
		s.logg.Warn(ctx, fmt.Sprintf("refresh session after settlement: %v", err))
	}

	s.metrics.ObserveSettlement(string(method), time.Since(start))
	s.metrics.IncOutcome(string(method), "succeeded")
	s.logg.Info(ctx, fmt.Sprintf("settled %s payment %s", method, transactionID))

	sub.Plan = plan
	return &SettlementResult{
		Subscription: subscriptions.FromModel(sub),
		Payment:      payments.FromModel(payment),
	}, nil
}

func (s *service) settledResult(ctx context.Context, payment *models.Payment) (*SettlementResult, error) {
	sub, err := s.subs.FindByProviderRef(ctx, payment.TransactionID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load settled subscription")
	}
	return &SettlementResult{
		Subscription:   subscriptions.FromModel(sub),
		Payment:        payments.FromModel(payment),
		AlreadySettled: true,
	}, nil
}

func (s *service) settledResultByTransaction(ctx context.Context, transactionID string) (*SettlementResult, error) {
	payment, err := s.payments.FindByTransactionID(ctx, transactionID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load settled payment")
	}
	if payment == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "settled payment disappeared")
	}
	return s.settledResult(ctx, payment)
}

func (s *service) logContext(ctx context.Context, planID uuid.UUID, method enums.PaymentMethod) context.Context {
	if s.logg == nil {
		return ctx
	}
	ctx = s.logg.WithPlanID(ctx, planID.String())
	return s.logg.WithPaymentMethod(ctx, string(method))
}
