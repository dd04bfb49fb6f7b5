package crud

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"opticapa_api/internal/models"
)

func sectionsByOnb(t *testing.T, db *gorm.DB, onbs ...int) []models.SectionAxe {
	t.Helper()
	var sections []models.SectionAxe
	require.NoError(t, db.Where("onb_tcap IN ?", onbs).Find(&sections).Error)
	require.Len(t, sections, len(onbs))
	return sections
}

func TestCreateUpdateDeleteProcedures(t *testing.T) {
	db := testDB(t)
	seedReferential(t, db)
	ctx := context.Background()

	axeEf := &models.AxeEf{
		ID:              "22222222-2222-2222-2222-222222222222",
		Libelle:         "Axe Nord",
		Nature:          models.NatureFret,
		Color:           "#AA0000",
		ServiceAnnuelID: "SA2024",
		CreatedAt:       time.Now(),
		CreatedBy:       7,
		Sections:        sectionsByOnb(t, db, 1, 2),
	}
	require.NoError(t, CreateProcedure(ctx, db, axeEf))

	rows := joinRows(t, db, axeEf.ID)
	require.Len(t, rows, 2)
	assert.Equal(t, 1, rows[0].SectionAxeOnb)
	assert.Equal(t, 2, rows[1].SectionAxeOnb)

	// Update replaces the association set, never merges.
	replacement := &models.AxeEf{
		ID:              axeEf.ID,
		Libelle:         "Axe Nord",
		Description:     "restricted to S1",
		Nature:          models.NatureFret,
		Color:           "#AA0000",
		ServiceAnnuelID: "SA2024",
		CreatedAt:       axeEf.CreatedAt,
		CreatedBy:       axeEf.CreatedBy,
		Sections:        sectionsByOnb(t, db, 1),
	}
	require.NoError(t, UpdateProcedure(ctx, db, replacement))

	rows = joinRows(t, db, axeEf.ID)
	require.Len(t, rows, 1)
	assert.Equal(t, 1, rows[0].SectionAxeOnb)

	var stored models.AxeEf
	require.NoError(t, db.First(&stored, "id = ?", axeEf.ID).Error)
	assert.Equal(t, "restricted to S1", stored.Description)
	assert.Equal(t, uint(7), stored.CreatedBy)

	// Delete removes the row and its join rows.
	require.NoError(t, DeleteProcedure(ctx, db, replacement))
	assert.Empty(t, joinRows(t, db, axeEf.ID))
	err := db.First(&models.AxeEf{}, "id = ?", axeEf.ID).Error
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUpsertProcedureCreate(t *testing.T) {
	db := testDB(t)
	seedReferential(t, db)
	ctx := context.Background()

	axeEfID := "33333333-3333-3333-3333-333333333333"
	record := &models.AxeEf{
		ID:              axeEfID,
		Libelle:         "Axe Est",
		Nature:          models.NatureVoyageurs,
		ServiceAnnuelID: "SA2024",
		CreatedAt:       time.Now(),
		CreatedBy:       7,
	}
	joins := []models.AxeEfSection{
		{AxeEfID: axeEfID, SectionAxeOnb: 2},
		{AxeEfID: axeEfID, SectionAxeOnb: 3},
	}

	afterInsertCalled := false
	err := UpsertProcedure(ctx, db, "axe_ef", UpsertParams{
		Record: record,
		IDs:    []string{axeEfID},
		Dependents: map[string]Dependent{
			"sections": {Rows: &joins, Model: &models.AxeEfSection{}, ParentColumn: "axe_ef_id"},
		},
		AfterInsert: func(tx *gorm.DB) error {
			afterInsertCalled = true
			return nil
		},
	})
	require.NoError(t, err)
	assert.True(t, afterInsertCalled)
	assert.Len(t, joinRows(t, db, axeEfID), 2)
}

func TestUpsertProcedureUpdate(t *testing.T) {
	db := testDB(t)
	seedReferential(t, db)
	ctx := context.Background()

	axeEfID := "44444444-4444-4444-4444-444444444444"
	createdAt := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, db.Create(&models.AxeEf{
		ID:              axeEfID,
		Libelle:         "Axe Ouest",
		Nature:          models.NatureMixte,
		ServiceAnnuelID: "SA2024",
		CreatedAt:       createdAt,
		CreatedBy:       7,
	}).Error)
	require.NoError(t, db.Create(&[]models.AxeEfSection{
		{AxeEfID: axeEfID, SectionAxeOnb: 1},
		{AxeEfID: axeEfID, SectionAxeOnb: 2},
	}).Error)

	joins := []models.AxeEfSection{{AxeEfID: axeEfID, SectionAxeOnb: 3}}
	var deletedIDs []string
	err := UpsertProcedure(ctx, db, "axe_ef", UpsertParams{
		Record: &models.AxeEf{
			ID:              axeEfID,
			Libelle:         "Axe Ouest v2",
			Description:     "rerouted",
			Nature:          models.NatureMixte,
			ServiceAnnuelID: "SA2024",
			// The conflict-update clause must not overwrite audit columns.
			CreatedAt: time.Now(),
			CreatedBy: 99,
		},
		IDs:      []string{axeEfID},
		DoUpdate: true,
		Dependents: map[string]Dependent{
			"sections": {Rows: &joins, Model: &models.AxeEfSection{}, ParentColumn: "axe_ef_id"},
		},
		AfterDelete: func(tx *gorm.DB, ids []string) error {
			deletedIDs = ids
			return nil
		},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{axeEfID}, deletedIDs)

	rows := joinRows(t, db, axeEfID)
	require.Len(t, rows, 1)
	assert.Equal(t, 3, rows[0].SectionAxeOnb)

	var stored models.AxeEf
	require.NoError(t, db.First(&stored, "id = ?", axeEfID).Error)
	assert.Equal(t, "Axe Ouest v2", stored.Libelle)
	assert.Equal(t, "rerouted", stored.Description)
	assert.Equal(t, uint(7), stored.CreatedBy)
	assert.True(t, stored.CreatedAt.Equal(createdAt))
}

func TestUpsertProcedureSkipsEmptyDependents(t *testing.T) {
	db := testDB(t)
	seedReferential(t, db)
	ctx := context.Background()

	axeEfID := "55555555-5555-5555-5555-555555555555"
	joins := []models.AxeEfSection{}
	err := UpsertProcedure(ctx, db, "axe_ef", UpsertParams{
		Record: &models.AxeEf{
			ID:              axeEfID,
			Libelle:         "Axe sans sections",
			Nature:          models.NatureFret,
			ServiceAnnuelID: "SA2024",
			CreatedAt:       time.Now(),
		},
		IDs: []string{axeEfID},
		Dependents: map[string]Dependent{
			"sections": {Rows: &joins, Model: &models.AxeEfSection{}, ParentColumn: "axe_ef_id"},
		},
	})
	require.NoError(t, err)
	assert.Empty(t, joinRows(t, db, axeEfID))
}
