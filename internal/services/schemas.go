package services

import (
	"time"

	"opticapa_api/internal/models"
)

// AxeEfCreateUpdate is the request body shared by create and update.
type AxeEfCreateUpdate struct {
	Libelle         string             `json:"libelle" binding:"required"`
	Description     string             `json:"description"`
	Nature          models.NatureAxeEf `json:"nature" binding:"required,oneof=fret voyageurs mixte"`
	Color           string             `json:"color"`
	ServiceAnnuelID string             `json:"service_annuel_id" binding:"required"`
	SectionAxeOnbs  []int              `json:"section_axe_onbs"`
}

// SectionAxeProto is the section summary embedded in an axis detail.
type SectionAxeProto struct {
	OnbTcap         int    `json:"onb_tcap"`
	Libelle         string `json:"libelle"`
	ServiceAnnuelID string `json:"service_annuel_id"`
	Geometry        string `json:"geometry,omitempty"`
}

// AxeEfGet is the detail representation of one axis.
type AxeEfGet struct {
	ID              string             `json:"id"`
	Libelle         string             `json:"libelle"`
	Description     string             `json:"description"`
	Nature          models.NatureAxeEf `json:"nature"`
	Color           string             `json:"color"`
	ServiceAnnuelID string             `json:"service_annuel_id"`
	SectionAxes     []SectionAxeProto  `json:"section_axes"`
}

// Lvpk locates one mapped section by line, track and kilometric points.
type Lvpk struct {
	Ligne   string  `json:"ligne"`
	Voie    string  `json:"voie"`
	PkDebut float64 `json:"pk_debut"`
	PkFin   float64 `json:"pk_fin"`
}

// AxeEfGetAll is one row of the paginated axis list.
type AxeEfGetAll struct {
	ID          string             `json:"id"`
	Libelle     string             `json:"libelle"`
	Color       string             `json:"color"`
	Nature      models.NatureAxeEf `json:"nature"`
	Description string             `json:"description"`
	UpdatedAt   time.Time          `json:"updated_at"`
	Lvpks       []Lvpk             `json:"lvpks"`
}

// PaginationAxeEf is the get-all response body.
type PaginationAxeEf struct {
	Items []AxeEfGetAll `json:"items"`
	Count int64         `json:"count"`
}

type CreatedResponse struct {
	Created string `json:"created"`
}

type UpdatedResponse struct {
	Updated string `json:"updated"`
}

type DeletedResponse struct {
	Deleted string `json:"deleted"`
}
