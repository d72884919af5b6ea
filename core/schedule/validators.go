package schedule

import (
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/mahudhurio/core"
)

var (
	sessionKindTag  = "sessionkind"
	sessionKindText = "must be one of: theory, lab"

	weekdayTag  = "instructionalday"
	weekdayText = "must be a weekday (Monday..Friday)"
)

func init() {
	_ = core.Validate.RegisterValidation(sessionKindTag, sessionKindValidation)
	core.RegisterCustomTranslation(sessionKindTag, sessionKindText)

	_ = core.Validate.RegisterValidation(weekdayTag, weekdayValidation)
	core.RegisterCustomTranslation(weekdayTag, weekdayText)
}

func sessionKindValidation(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case KindTheory, KindLab:
		return true
	}
	return false
}

func weekdayValidation(fl validator.FieldLevel) bool {
	wd := fl.Field().Int()
	return wd >= int64(InstructionalWeekdays[0]) && wd <= int64(InstructionalWeekdays[len(InstructionalWeekdays)-1])
}

// NewSession contains information needed to add one timetable slot.
type NewSession struct {
	TermID    string `json:"term_id" validate:"required"`
	Division  string `json:"division" validate:"required,alphanum_"`
	Batch     string `json:"batch" validate:"required,alphanum_"`
	Weekday   int    `json:"weekday" validate:"instructionalday"`
	Subject   string `json:"subject" validate:"required"`
	Kind      string `json:"kind" validate:"required,sessionkind"`
	Room      string `json:"room"`
	StartTime string `json:"start_time" validate:"omitempty,len=5"` // "HH:MM"
	EndTime   string `json:"end_time" validate:"omitempty,len=5"`
}

func (ns *NewSession) Validate() error {
	ns.TermID = core.CleanString(ns.TermID, true /* lower */)
	ns.Division = core.CleanString(ns.Division, true /* lower */)
	ns.Batch = core.CleanString(ns.Batch, true /* lower */)
	ns.Subject = core.CleanString(ns.Subject)
	ns.Kind = core.CleanString(ns.Kind, true /* lower */)
	ns.Room = core.CleanString(ns.Room)
	return core.Validate.Struct(ns)
}
