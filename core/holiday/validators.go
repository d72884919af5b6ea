package holiday

import "github.com/trezcool/mahudhurio/core"

// NewHoliday contains information needed to declare one non-instructional day.
type NewHoliday struct {
	Date string `json:"date" validate:"required,dateonly"`
	Name string `json:"name" validate:"required"`
}

func (nh *NewHoliday) Validate() error {
	nh.Date = core.CleanString(nh.Date)
	nh.Name = core.CleanString(nh.Name)
	return core.Validate.Struct(nh)
}
