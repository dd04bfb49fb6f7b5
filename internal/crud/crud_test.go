package crud

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"opticapa_api/internal/config"
	"opticapa_api/internal/models"
)

// testDB opens an isolated in-memory database with the production schema.
func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// A single connection keeps every session on the same in-memory database.
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, config.Migrate(db))
	return db
}

func seedReferential(t *testing.T, db *gorm.DB) {
	t.Helper()
	require.NoError(t, db.Create(&models.ServiceAnnuel{
		ID:        "SA2024",
		Libelle:   "Service annuel 2024",
		DateDebut: time.Date(2023, 12, 10, 0, 0, 0, 0, time.UTC),
		DateFin:   time.Date(2024, 12, 14, 0, 0, 0, 0, time.UTC),
	}).Error)
	require.NoError(t, db.Create(&[]models.SectionAxe{
		{OnbTcap: 1, Libelle: "S1", ServiceAnnuelID: "SA2024", Ligne: "930000", Voie: "V1", PkDebut: 10, PkFin: 25},
		{OnbTcap: 2, Libelle: "S2", ServiceAnnuelID: "SA2024", Ligne: "930000", Voie: "V2", PkDebut: 25, PkFin: 40},
		{OnbTcap: 3, Libelle: "S3", ServiceAnnuelID: "SA2024", Ligne: "946000", Voie: "V1", PkDebut: 0, PkFin: 12},
	}).Error)
}

func joinRows(t *testing.T, db *gorm.DB, axeEfID string) []models.AxeEfSection {
	t.Helper()
	var rows []models.AxeEfSection
	require.NoError(t, db.Where("axe_ef_id = ?", axeEfID).Order("section_axe_onb").Find(&rows).Error)
	return rows
}
