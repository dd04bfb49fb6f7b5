package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"opticapa_api/internal/config"
	"opticapa_api/internal/crud"
	"opticapa_api/internal/models"
)

// AxeEfService carries axis operations over the injected pool. Request-scoped
// operations run on the primary handle; renew runs on the background one.
type AxeEfService struct {
	pool *config.Pool
}

func NewAxeEfService(pool *config.Pool) *AxeEfService {
	return &AxeEfService{pool: pool}
}

// GetAxeEf fetches one axis with its sections, or fails with a 404.
func (s *AxeEfService) GetAxeEf(ctx context.Context, axeEfID string) (*AxeEfGet, error) {
	axeEf, err := crud.VerifyExistence[models.AxeEf](ctx, s.pool.Primary, "axe_ef", axeEfID, crud.LookupOptions{
		Preloads: []string{"Sections"},
	})
	if err != nil {
		return nil, err
	}
	sectionAxes := make([]SectionAxeProto, 0, len(axeEf.Sections))
	for _, section := range axeEf.Sections {
		sectionAxes = append(sectionAxes, SectionAxeProto{
			OnbTcap:         section.OnbTcap,
			Libelle:         section.Libelle,
			ServiceAnnuelID: section.ServiceAnnuelID,
			Geometry:        wkbToGeoJSON(section.Geometry),
		})
	}
	return &AxeEfGet{
		ID:              axeEf.ID,
		Libelle:         axeEf.Libelle,
		Description:     axeEf.Description,
		Nature:          axeEf.Nature,
		Color:           axeEf.Color,
		ServiceAnnuelID: axeEf.ServiceAnnuelID,
		SectionAxes:     sectionAxes,
	}, nil
}

// ListParams bounds the get-all query.
type ListParams struct {
	Limit  int
	Offset int
	Search string
}

// GetAllAxesEf lists axes ordered by libelle with their mapped sections
// aggregated into lvpks. Count respects the search filter but not pagination.
func (s *AxeEfService) GetAllAxesEf(ctx context.Context, params ListParams) (*PaginationAxeEf, error) {
	filtered := func() *gorm.DB {
		q := s.pool.Primary.WithContext(ctx).Model(&models.AxeEf{})
		if params.Search != "" {
			q = q.Where("libelle LIKE ?", "%"+params.Search+"%")
		}
		return q
	}

	var count int64
	if err := filtered().Count(&count).Error; err != nil {
		return nil, err
	}

	var axes []models.AxeEf
	err := filtered().
		Preload("Sections").
		Order("libelle").
		Limit(params.Limit).
		Offset(params.Offset).
		Find(&axes).Error
	if err != nil {
		return nil, err
	}

	items := make([]AxeEfGetAll, 0, len(axes))
	for _, axeEf := range axes {
		updatedAt := axeEf.CreatedAt
		if axeEf.ModifiedAt != nil {
			updatedAt = *axeEf.ModifiedAt
		}
		lvpks := make([]Lvpk, 0, len(axeEf.Sections))
		for _, section := range axeEf.Sections {
			lvpks = append(lvpks, Lvpk{
				Ligne:   section.Ligne,
				Voie:    section.Voie,
				PkDebut: section.PkDebut,
				PkFin:   section.PkFin,
			})
		}
		items = append(items, AxeEfGetAll{
			ID:          axeEf.ID,
			Libelle:     axeEf.Libelle,
			Color:       axeEf.Color,
			Nature:      axeEf.Nature,
			Description: axeEf.Description,
			UpdatedAt:   updatedAt,
			Lvpks:       lvpks,
		})
	}
	return &PaginationAxeEf{Items: items, Count: count}, nil
}

// CreateAxeEf validates the request and inserts a new axis with a fresh id.
func (s *AxeEfService) CreateAxeEf(ctx context.Context, request AxeEfCreateUpdate, userID uint) (*CreatedResponse, error) {
	axeEf, err := s.makeAxeEf(ctx, s.pool.Primary, request)
	if err != nil {
		return nil, err
	}
	axeEf.ID = uuid.NewString()
	axeEf.CreatedAt = time.Now()
	axeEf.CreatedBy = userID
	if err := crud.CreateProcedure(ctx, s.pool.Primary, axeEf); err != nil {
		return nil, err
	}
	return &CreatedResponse{Created: axeEf.ID}, nil
}

// UpdateAxeEf validates the request and fully replaces the stored axis,
// including its section associations. Creation metadata is preserved.
func (s *AxeEfService) UpdateAxeEf(ctx context.Context, axeEfID string, request AxeEfCreateUpdate, userID uint) (*UpdatedResponse, error) {
	existing, err := crud.VerifyExistence[models.AxeEf](ctx, s.pool.Primary, "axe_ef", axeEfID, crud.LookupOptions{})
	if err != nil {
		return nil, err
	}
	axeEf, err := s.makeAxeEf(ctx, s.pool.Primary, request)
	if err != nil {
		return nil, err
	}
	axeEf.ID = axeEfID
	axeEf.CreatedAt = existing.CreatedAt
	axeEf.CreatedBy = existing.CreatedBy
	now := time.Now()
	axeEf.ModifiedAt = &now
	axeEf.ModifiedBy = &userID
	if err := crud.UpdateProcedure(ctx, s.pool.Primary, axeEf); err != nil {
		return nil, err
	}
	return &UpdatedResponse{Updated: axeEf.ID}, nil
}

// DeleteAxeEf verifies the axis exists, then removes it physically.
func (s *AxeEfService) DeleteAxeEf(ctx context.Context, axeEfID string) (*DeletedResponse, error) {
	axeEf, err := crud.VerifyExistence[models.AxeEf](ctx, s.pool.Primary, "axe_ef", axeEfID, crud.LookupOptions{})
	if err != nil {
		return nil, err
	}
	if err := crud.DeleteProcedure(ctx, s.pool.Primary, axeEf); err != nil {
		return nil, err
	}
	return &DeletedResponse{Deleted: axeEfID}, nil
}

// RenewAxeEf clones an axis forward into another service annuel, mapping each
// section onto the section bearing the same libelle in the target period.
// Runs on the background pool and inserts the clone plus its join rows as one
// batched unit.
func (s *AxeEfService) RenewAxeEf(ctx context.Context, axeEfID, serviceAnnuelID string, userID uint) (*CreatedResponse, error) {
	db := s.pool.Background

	axeEf, err := crud.VerifyExistence[models.AxeEf](ctx, db, "axe_ef", axeEfID, crud.LookupOptions{
		Preloads: []string{"Sections"},
	})
	if err != nil {
		return nil, err
	}
	if _, err := crud.VerifyExistence[models.ServiceAnnuel](ctx, db, "service_annuel", serviceAnnuelID, crud.LookupOptions{}); err != nil {
		return nil, err
	}

	libelles := make([]string, 0, len(axeEf.Sections))
	for _, section := range axeEf.Sections {
		libelles = append(libelles, section.Libelle)
	}
	candidates, err := crud.VerifyExistenceAll[models.SectionAxe](ctx, db, "section_axe", libelles, crud.LookupOptions{
		Column:         "libelle",
		IgnoreNotFound: true,
	})
	if err != nil {
		return nil, err
	}
	matched := map[string]models.SectionAxe{}
	for _, candidate := range candidates {
		if candidate.ServiceAnnuelID == serviceAnnuelID {
			matched[candidate.Libelle] = candidate
		}
	}
	var missing []string
	for _, libelle := range libelles {
		if _, ok := matched[libelle]; !ok {
			missing = append(missing, libelle)
		}
	}
	if len(matched) == 0 || len(missing) > 0 {
		return nil, crud.NewValidation(fmt.Sprintf(
			"TCAP sections axes %s aren't valid on the specified SA %s. Please select valid sections on this SA",
			strings.Join(missing, ", "), serviceAnnuelID,
		))
	}

	newID := uuid.NewString()
	clone := &models.AxeEf{
		ID: newID,
		// Libelle is globally unique; suffix with the target period so the
		// source axis keeps its label.
		Libelle:         fmt.Sprintf("%s (%s)", axeEf.Libelle, serviceAnnuelID),
		Description:     axeEf.Description,
		Nature:          axeEf.Nature,
		Color:           axeEf.Color,
		ServiceAnnuelID: serviceAnnuelID,
		CreatedAt:       time.Now(),
		CreatedBy:       userID,
	}
	joins := make([]models.AxeEfSection, 0, len(matched))
	for _, section := range matched {
		joins = append(joins, models.AxeEfSection{AxeEfID: newID, SectionAxeOnb: section.OnbTcap})
	}

	err = crud.UpsertProcedure(ctx, db, "axe_ef", crud.UpsertParams{
		Record: clone,
		IDs:    []string{newID},
		Dependents: map[string]crud.Dependent{
			"sections": {
				Rows:         &joins,
				Model:        &models.AxeEfSection{},
				ParentColumn: "axe_ef_id",
			},
		},
	})
	if err != nil {
		return nil, err
	}
	return &CreatedResponse{Created: newID}, nil
}

// makeAxeEf checks related entities and assembles a persistence-ready axis:
// the service annuel must exist, every requested section must resolve, and
// all resolved sections must belong to the requested service annuel.
func (s *AxeEfService) makeAxeEf(ctx context.Context, db *gorm.DB, request AxeEfCreateUpdate) (*models.AxeEf, error) {
	if _, err := crud.VerifyExistence[models.ServiceAnnuel](ctx, db, "service_annuel", request.ServiceAnnuelID, crud.LookupOptions{}); err != nil {
		return nil, err
	}
	sections, err := crud.VerifyExistenceAll[models.SectionAxe](ctx, db, "section_axe", request.SectionAxeOnbs, crud.LookupOptions{
		Column: "onb_tcap",
	})
	if err != nil {
		return nil, err
	}
	if err := validateSections(sections, request.ServiceAnnuelID); err != nil {
		return nil, err
	}
	return &models.AxeEf{
		Libelle:         request.Libelle,
		Description:     request.Description,
		Nature:          request.Nature,
		Color:           request.Color,
		ServiceAnnuelID: request.ServiceAnnuelID,
		Sections:        sections,
	}, nil
}

func validateSections(sections []models.SectionAxe, serviceAnnuelID string) error {
	if len(sections) == 0 {
		return crud.NewValidation(fmt.Sprintf(
			"No TCAP sections axes were specified. Please select at least one valid section on the specified SA %s",
			serviceAnnuelID,
		))
	}
	var invalid []string
	for _, section := range sections {
		if section.ServiceAnnuelID != serviceAnnuelID {
			invalid = append(invalid, section.Libelle)
		}
	}
	if len(invalid) > 0 {
		return crud.NewValidation(fmt.Sprintf(
			"TCAP sections axes %s aren't valid on the specified SA %s. Please select valid sections on this SA",
			strings.Join(invalid, ", "), serviceAnnuelID,
		))
	}
	return nil
}
