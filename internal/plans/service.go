package plans

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/MyResellApp/MyResell/pkg/db/models"
	pkgerrors "github.com/MyResellApp/MyResell/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service defines the catalog behavior needed by controllers and checkout.
type Service interface {
	List(ctx context.Context) ([]PlanDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*PlanDTO, error)
	Create(ctx context.Context, dto CreatePlanDTO) (*PlanDTO, error)
	Update(ctx context.Context, id uuid.UUID, dto UpdatePlanDTO) (*PlanDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type repository interface {
	List(ctx context.Context) ([]models.Plan, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Plan, error)
	Create(ctx context.Context, dto CreatePlanDTO) (*models.Plan, error)
	Update(ctx context.Context, id uuid.UUID, dto UpdatePlanDTO) (*models.Plan, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ServiceParams bundles the dependencies required to build a plans service.
type ServiceParams struct {
	Repo repository
}

type service struct {
	repo repository
}

// NewService constructs a catalog service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("plans repository is required")
	}
	return &service{repo: params.Repo}, nil
}

func (s *service) List(ctx context.Context) ([]PlanDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list plans")
	}
	out := make([]PlanDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*PlanDTO, error) {
	plan, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "plan not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load plan")
	}
	return FromModel(plan), nil
}

func (s *service) Create(ctx context.Context, dto CreatePlanDTO) (*PlanDTO, error) {
	if strings.TrimSpace(dto.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "plan name is required")
	}
	if dto.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "plan price cannot be negative")
	}
	plan, err := s.repo.Create(ctx, dto)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create plan")
	}
	return FromModel(plan), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, dto UpdatePlanDTO) (*PlanDTO, error) {
	if dto.Price != nil && dto.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "plan price cannot be negative")
	}
	plan, err := s.repo.Update(ctx, id, dto)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "plan not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update plan")
	}
	return FromModel(plan), nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete plan")
	}
	return nil
}
