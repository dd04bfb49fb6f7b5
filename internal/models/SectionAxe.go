package models

// SectionAxe is a TCAP road section owned by the capacity referential.
// This service only reads sections; they are created elsewhere.
type SectionAxe struct {
	OnbTcap         int     `gorm:"column:onb_tcap;primaryKey" json:"onb_tcap"`
	Libelle         string  `gorm:"not null" json:"libelle"`
	ServiceAnnuelID string  `gorm:"not null;index" json:"service_annuel_id"`
	Ligne           string  `json:"ligne"`
	Voie            string  `json:"voie"`
	PkDebut         float64 `json:"pk_debut"`
	PkFin           float64 `json:"pk_fin"`

	// Geometry stored as WKB (LINESTRING, SRID 4326); GeoJSON on the API surface.
	Geometry []byte `gorm:"type:bytea" json:"-"`
}

func (SectionAxe) TableName() string { return "section_axe" }
