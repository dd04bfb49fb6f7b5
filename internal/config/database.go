package config

import (
	"errors"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"opticapa_api/internal/logger"
	"opticapa_api/internal/models"
)

// Pool owns the database handles for the process: one for request-scoped
// work and one for background work such as renew. Built once in main and
// closed at shutdown; nothing else creates connections.
type Pool struct {
	Primary    *gorm.DB
	Background *gorm.DB
}

// NewPool opens both handles and runs schema migration on the primary one.
func NewPool(s *Settings) (*Pool, error) {
	primary, err := open(s, 20)
	if err != nil {
		return nil, err
	}
	background, err := open(s, 5)
	if err != nil {
		return nil, err
	}
	// Both handles need the explicit join table for Sections reads/writes;
	// schema migration only runs once.
	if err := background.SetupJoinTable(&models.AxeEf{}, "Sections", &models.AxeEfSection{}); err != nil {
		return nil, err
	}
	if err := Migrate(primary); err != nil {
		return nil, err
	}
	return &Pool{Primary: primary, Background: background}, nil
}

func open(s *Settings, maxConns int) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(s.DSN()), &gorm.Config{Logger: logger.GormLogger()})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(maxConns)
	sqlDB.SetMaxIdleConns(maxConns / 2)
	return db, nil
}

// Migrate registers the explicit join table and migrates the schema.
func Migrate(db *gorm.DB) error {
	if err := db.SetupJoinTable(&models.AxeEf{}, "Sections", &models.AxeEfSection{}); err != nil {
		return err
	}
	return db.AutoMigrate(
		&models.ServiceAnnuel{},
		&models.SectionAxe{},
		&models.AxeEf{},
	)
}

// Close releases both handles.
func (p *Pool) Close() error {
	var errs []error
	for _, db := range []*gorm.DB{p.Primary, p.Background} {
		if db == nil {
			continue
		}
		sqlDB, err := db.DB()
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if err := sqlDB.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
