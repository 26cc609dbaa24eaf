package models

// ToothCondition describes the state recorded for a tooth or one of its
// surfaces on the dental chart.
type ToothCondition string

const (
	ConditionHealthy    ToothCondition = "HEALTHY"
	ConditionCaries     ToothCondition = "CARIES"
	ConditionFilled     ToothCondition = "FILLED"
	ConditionCrown      ToothCondition = "CROWN"
	ConditionExtracted  ToothCondition = "EXTRACTED"
	ConditionImplant    ToothCondition = "IMPLANT"
	ConditionRootCanal  ToothCondition = "ROOT_CANAL"
	ConditionFracture   ToothCondition = "FRACTURE"
	ConditionMissing    ToothCondition = "MISSING"
	ConditionToExtract  ToothCondition = "TO_EXTRACT"
	ConditionInAbsentia ToothCondition = "NOT_ERUPTED"
)

// Odontogram is one immutable version of a patient's dental chart. Updates
// never mutate teeth in place: a new version row is created with all teeth
// copied, the previous version loses the current flag. History is strictly
// linear per patient.
type Odontogram struct {
	BaseModel
	PatientID string `gorm:"size:36;index:idx_odontogram_patient" json:"patientId"`
	Version   int    `gorm:"not null" json:"version"`
	IsCurrent bool   `gorm:"index:idx_odontogram_patient;default:false" json:"isCurrent"`
	Notes     string `gorm:"type:text" json:"notes,omitempty"`

	Patient Patient `gorm:"foreignKey:PatientID" json:"-"`
	Teeth   []Tooth `gorm:"foreignKey:OdontogramID" json:"teeth,omitempty"`
}

// Tooth is one tooth entry in an odontogram version, numbered in FDI
// notation (11-48 permanent, 51-85 temporary).
type Tooth struct {
	BaseModel
	OdontogramID string         `gorm:"size:36;index" json:"odontogramId"`
	Number       int            `gorm:"not null" json:"number"`
	Condition    ToothCondition `gorm:"size:20;default:'HEALTHY'" json:"condition"`
	// Per-surface conditions; empty means same as the whole-tooth condition.
	Occlusal string `gorm:"size:20" json:"occlusal,omitempty"`
	Mesial   string `gorm:"size:20" json:"mesial,omitempty"`
	Distal   string `gorm:"size:20" json:"distal,omitempty"`
	Buccal   string `gorm:"size:20" json:"buccal,omitempty"`
	Lingual  string `gorm:"size:20" json:"lingual,omitempty"`
	Notes    string `gorm:"size:255" json:"notes,omitempty"`
}

// PermanentFDINumbers lists the 32 permanent teeth in FDI order, quadrant
// by quadrant. Used to seed a patient's first odontogram.
var PermanentFDINumbers = []int{
	18, 17, 16, 15, 14, 13, 12, 11,
	21, 22, 23, 24, 25, 26, 27, 28,
	38, 37, 36, 35, 34, 33, 32, 31,
	41, 42, 43, 44, 45, 46, 47, 48,
}

// ValidFDINumber reports whether n is a valid FDI tooth number, permanent
// or temporary dentition.
func ValidFDINumber(n int) bool {
	q, pos := n/10, n%10
	if pos < 1 {
		return false
	}
	if q >= 1 && q <= 4 {
		return pos <= 8
	}
	if q >= 5 && q <= 8 {
		return pos <= 5
	}
	return false
}
