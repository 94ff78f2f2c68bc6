package forms

import "fmt"

// Missing returns the names of the required fields of d that are still empty.
func Missing(d EventData) ([]string, error) {
	if absent(d) {
		return nil, ErrInvalidEventData
	}

	if !d.Kind().Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedKind, d.Kind())
	}

	return Dispatch[[]string](d, required{}), nil
}

// Validate reports whether every required field of d is populated.
func Validate(d EventData) (bool, error) {
	missing, err := Missing(d)
	if err != nil {
		return false, err
	}

	return len(missing) == 0, nil
}

type checklist []string

func (c *checklist) text(name, value string) {
	if value == "" {
		*c = append(*c, name)
	}
}

func (c *checklist) list(name string, values []string) {
	if len(values) == 0 {
		*c = append(*c, name)
	}
}

func (c *checklist) times(b Base) {
	c.text("startTime", b.StartTime)
	c.text("endTime", b.EndTime)
}

type required struct{}

func (required) Viewing(d *ViewingData) []string {
	var c checklist
	c.text("property", d.Property)
	c.list("staff", d.Staff)
	c.times(d.Base)

	return c
}

func (required) Appointment(d *AppointmentData) []string {
	var c checklist
	c.text("title", d.Title)
	c.text("appointmentType", d.AppointmentType)
	c.list("staff", d.Staff)
	c.times(d.Base)

	return c
}

func (required) Callback(d *CallbackData) []string {
	var c checklist
	c.text("contact", d.Contact)
	c.text("description", d.Description)
	c.list("staff", d.Staff)
	c.times(d.Base)

	return c
}

func (required) Inspection(d *InspectionData) []string {
	var c checklist
	c.text("inspectionType", d.InspectionType)
	c.list("staffInspectors", d.StaffInspectors)
	c.times(d.Base)

	return c
}

func (required) Maintenance(d *MaintenanceData) []string {
	var c checklist
	c.text("maintenanceType", d.MaintenanceType)
	c.times(d.Base)
	c.text("property", d.Property)
	c.list("staff", d.Staff)

	return c
}

func (required) Note(d *NoteData) []string {
	var c checklist
	c.text("noteType", d.NoteType)
	c.text("note", d.Note)
	c.times(d.Base)

	return c
}

func (required) PublicHoliday(d *PublicHolidayData) []string {
	var c checklist
	c.text("holidayName", d.HolidayName)
	c.times(d.Base)

	return c
}

func (required) SickLeave(d *SickLeaveData) []string {
	var c checklist
	c.text("title", d.Title)
	c.times(d.Base)

	return c
}

func (required) StaffHoliday(d *StaffHolidayData) []string {
	var c checklist
	c.text("holidayType", d.HolidayType)
	c.times(d.Base)

	return c
}

func (required) StaffMeeting(d *StaffMeetingData) []string {
	var c checklist
	c.text("title", d.Title)
	c.text("meetingType", d.MeetingType)
	c.list("staff", d.Staff)
	c.times(d.Base)

	return c
}

func (required) Training(d *TrainingData) []string {
	var c checklist
	c.text("title", d.Title)
	c.text("trainingType", d.TrainingType)
	c.times(d.Base)

	return c
}

func (required) Valuation(d *ValuationData) []string {
	var c checklist
	c.text("propertyOwner", d.PropertyOwner)
	c.text("location", d.Location)
	c.list("staff", d.Staff)
	c.times(d.Base)

	return c
}
