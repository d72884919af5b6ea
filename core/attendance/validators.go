package attendance

import (
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/mahudhurio/core"
)

var (
	outcomeStatusTag  = "outcomestatus"
	outcomeStatusText = "must be one of: present, absent, cancelled"
)

func init() {
	_ = core.Validate.RegisterValidation(outcomeStatusTag, outcomeStatusValidation)
	core.RegisterCustomTranslation(outcomeStatusTag, outcomeStatusText)
}

func outcomeStatusValidation(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case StatusPresent, StatusAbsent, StatusCancelled:
		return true
	}
	return false
}

// NewOutcome contains information needed to mark attendance for one session.
type NewOutcome struct {
	Date    string `json:"date" validate:"required,dateonly"`
	Subject string `json:"subject" validate:"required"`
	Kind    string `json:"kind" validate:"required,sessionkind"`
	Status  string `json:"status" validate:"required,outcomestatus"`
}

func (no *NewOutcome) Validate() error {
	no.Subject = core.CleanString(no.Subject)
	no.Kind = core.CleanString(no.Kind, true /* lower */)
	no.Status = core.CleanString(no.Status, true /* lower */)
	return core.Validate.Struct(no)
}

// NewImport contains the legacy aggregate totals to fold in for one subject.
type NewImport struct {
	TheoryTotal    int    `json:"theory_total" validate:"gte=0"`
	TheoryAttended int    `json:"theory_attended" validate:"gte=0,ltefield=TheoryTotal"`
	LabTotal       int    `json:"lab_total" validate:"gte=0"`
	LabAttended    int    `json:"lab_attended" validate:"gte=0,ltefield=LabTotal"`
	CutoverDate    string `json:"cutover_date" validate:"omitempty,dateonly"`
}

func (ni *NewImport) Validate() error {
	ni.CutoverDate = core.CleanString(ni.CutoverDate)
	return core.Validate.Struct(ni)
}
