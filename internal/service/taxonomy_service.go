package service

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/arnoldrod969/fixtop-agent-manager-sub000/internal/domain"
	"github.com/arnoldrod969/fixtop-agent-manager-sub000/internal/repository"
	"github.com/arnoldrod969/fixtop-agent-manager-sub000/pkg/util"
)

// TaxonomyService exposes the craft / specialty catalog.
type TaxonomyService struct {
	repos repository.Repositories
}

// NewTaxonomyService builds the service.
func NewTaxonomyService(repos repository.Repositories) *TaxonomyService {
	return &TaxonomyService{repos: repos}
}

// CreateCraft adds a craft to the catalog.
func (s *TaxonomyService) CreateCraft(ctx context.Context, name string) (*domain.Craft, error) {
	if name == "" {
		return nil, util.NewValidationError("craft name required", nil)
	}
	craft := &domain.Craft{Name: name}
	if err := s.repos.Taxonomy.CreateCraft(ctx, craft); err != nil {
		return nil, util.MapError(err)
	}
	return craft, nil
}

// CreateSpecialty adds a specialty under an existing craft.
func (s *TaxonomyService) CreateSpecialty(ctx context.Context, craftID int64, name string) (*domain.Specialty, error) {
	if name == "" {
		return nil, util.NewValidationError("specialty name required", nil)
	}
	if _, err := s.repos.Taxonomy.GetCraft(ctx, craftID); err != nil {
		if err == pgx.ErrNoRows {
			return nil, util.NewNotFound("craft", nil)
		}
		return nil, util.MapError(err)
	}
	specialty := &domain.Specialty{CraftID: craftID, Name: name}
	if err := s.repos.Taxonomy.CreateSpecialty(ctx, specialty); err != nil {
		return nil, util.MapError(err)
	}
	return specialty, nil
}

// ListCrafts returns the full craft catalog.
func (s *TaxonomyService) ListCrafts(ctx context.Context) ([]domain.Craft, error) {
	crafts, err := s.repos.Taxonomy.ListCrafts(ctx)
	if err != nil {
		return nil, util.MapError(err)
	}
	if crafts == nil {
		crafts = []domain.Craft{}
	}
	return crafts, nil
}

// ListSpecialties returns specialties, optionally narrowed to one craft.
func (s *TaxonomyService) ListSpecialties(ctx context.Context, craftID int64) ([]domain.Specialty, error) {
	var (
		specialties []domain.Specialty
		err         error
	)
	if craftID > 0 {
		specialties, err = s.repos.Taxonomy.ListSpecialtiesByCraft(ctx, craftID)
	} else {
		specialties, err = s.repos.Taxonomy.ListSpecialties(ctx)
	}
	if err != nil {
		return nil, util.MapError(err)
	}
	if specialties == nil {
		specialties = []domain.Specialty{}
	}
	return specialties, nil
}
