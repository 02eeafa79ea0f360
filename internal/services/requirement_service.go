package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/Aliyan555-555/Aaraazi-Prototype-sub002/internal/models"
	"github.com/Aliyan555-555/Aaraazi-Prototype-sub002/internal/repositories"
	"github.com/Aliyan555-555/Aaraazi-Prototype-sub002/internal/utils"
)

// RequirementService owns the buy side intake: what each agent's
// buyers are looking for.
type RequirementService struct {
	reqRepo repositories.RequirementRepository
}

func NewRequirementService(reqRepo repositories.RequirementRepository) *RequirementService {
	return &RequirementService{reqRepo: reqRepo}
}

type RegisterRequirementInput struct {
	BuyerName    string
	BuyerContact string

	Kind      models.RequirementKind
	BudgetMin float64
	BudgetMax float64
	RentMin   float64
	RentMax   float64

	PropertyTypes      []models.PropertyType
	PreferredLocations []models.Location
	MinBedrooms        int
	MaxBedrooms        int
	MinBathrooms       int
	MinAreaSqFt        float64
	MaxAreaSqFt        float64
	Features           []string
}

func (s *RequirementService) RegisterRequirement(ctx context.Context, userID uuid.UUID, in RegisterRequirementInput) (*models.BuyerRequirement, error) {
	if in.BudgetMin > 0 && in.BudgetMax > 0 && in.BudgetMin > in.BudgetMax {
		return nil, utils.ErrInvalidPayload
	}
	if in.RentMin > 0 && in.RentMax > 0 && in.RentMin > in.RentMax {
		return nil, utils.ErrInvalidPayload
	}
	if in.MinAreaSqFt > 0 && in.MaxAreaSqFt > 0 && in.MinAreaSqFt > in.MaxAreaSqFt {
		return nil, utils.ErrInvalidPayload
	}

	return s.reqRepo.Create(ctx, &models.BuyerRequirement{
		AgentID:            userID,
		BuyerName:          in.BuyerName,
		BuyerContact:       in.BuyerContact,
		Kind:               in.Kind,
		BudgetMin:          in.BudgetMin,
		BudgetMax:          in.BudgetMax,
		RentMin:            in.RentMin,
		RentMax:            in.RentMax,
		PropertyTypes:      in.PropertyTypes,
		PreferredLocations: in.PreferredLocations,
		MinBedrooms:        in.MinBedrooms,
		MaxBedrooms:        in.MaxBedrooms,
		MinBathrooms:       in.MinBathrooms,
		MinAreaSqFt:        in.MinAreaSqFt,
		MaxAreaSqFt:        in.MaxAreaSqFt,
		Features:           in.Features,
		Status:             models.RequirementStatusActive,
	})
}

func (s *RequirementService) ListRequirementsForUser(ctx context.Context, userID uuid.UUID, role models.UserRole) ([]models.BuyerRequirement, error) {
	if role == models.UserRoleAdmin {
		return s.reqRepo.ListAll(ctx)
	}
	return s.reqRepo.ListByAgent(ctx, userID)
}

func (s *RequirementService) GetRequirementForUser(ctx context.Context, id, userID uuid.UUID, role models.UserRole) (*models.BuyerRequirement, error) {
	req, err := s.reqRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if role != models.UserRoleAdmin && req.AgentID != userID {
		return nil, utils.ErrRequirementNotFound
	}
	return req, nil
}

// CloseRequirement retires an active requirement from matching. Closed
// is terminal; matched requirements close out through their deal.
func (s *RequirementService) CloseRequirement(ctx context.Context, id, userID uuid.UUID, role models.UserRole) (*models.BuyerRequirement, error) {
	req, err := s.reqRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if role != models.UserRoleAdmin && req.AgentID != userID {
		return nil, utils.ErrRequirementNotFound
	}

	return s.reqRepo.Update(ctx, id, func(r *models.BuyerRequirement) error {
		if r.Status != models.RequirementStatusActive {
			return utils.ErrWrongStatus
		}
		r.Status = models.RequirementStatusClosed
		return nil
	})
}
