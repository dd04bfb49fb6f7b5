package models

// AxeEfSection links an axis to one of its sections.
type AxeEfSection struct {
	AxeEfID       string `gorm:"column:axe_ef_id;type:uuid;primaryKey" json:"axe_ef_id"`
	SectionAxeOnb int    `gorm:"column:section_axe_onb;primaryKey" json:"section_axe_onb"`
}

func (AxeEfSection) TableName() string { return "axe_ef_sections" }
