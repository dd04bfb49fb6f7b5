package models

import (
	"time"

	"gorm.io/gorm"
)

// NatureAxeEf qualifies the traffic an axis carries.
type NatureAxeEf string

const (
	NatureFret      NatureAxeEf = "fret"
	NatureVoyageurs NatureAxeEf = "voyageurs"
	NatureMixte     NatureAxeEf = "mixte"
)

// AxeEf is a road-network axis defined on a single service annuel.
// Sections are attached through axe_ef_sections rows and fully replaced
// (never merged) whenever the axis is updated.
type AxeEf struct {
	ID              string      `gorm:"type:uuid;primaryKey" json:"id"`
	Libelle         string      `gorm:"uniqueIndex;not null" json:"libelle"`
	Description     string      `json:"description"`
	Nature          NatureAxeEf `gorm:"not null" json:"nature"`
	Color           string      `json:"color"`
	ServiceAnnuelID string      `gorm:"not null;index" json:"service_annuel_id"`

	CreatedAt  time.Time  `json:"created_at"`
	CreatedBy  uint       `json:"created_by"`
	ModifiedAt *time.Time `json:"modified_at,omitempty"`
	ModifiedBy *uint      `json:"modified_by,omitempty"`

	Sections []SectionAxe `gorm:"many2many:axe_ef_sections;foreignKey:ID;joinForeignKey:AxeEfID;references:OnbTcap;joinReferences:SectionAxeOnb" json:"sections,omitempty"`
}

func (AxeEf) TableName() string { return "axe_ef" }

func (a *AxeEf) EntityName() string { return "axe_ef" }

func (a *AxeEf) PrimaryKey() any { return a.ID }

// ClearAssociations wipes the axis's join rows so an update or delete never
// leaves stale section links behind.
func (a *AxeEf) ClearAssociations(tx *gorm.DB) error {
	return tx.Where("axe_ef_id = ?", a.ID).Delete(&AxeEfSection{}).Error
}
