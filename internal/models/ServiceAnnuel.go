package models

import (
	"time"
)

// ServiceAnnuel is a yearly service period. Axes and sections both hang off
// one; this service verifies the reference but never writes the table.
type ServiceAnnuel struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	Libelle   string    `json:"libelle"`
	DateDebut time.Time `json:"date_debut"`
	DateFin   time.Time `json:"date_fin"`
}

func (ServiceAnnuel) TableName() string { return "service_annuel" }
