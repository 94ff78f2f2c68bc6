package forms

// Visitor handles every event type. Adding a type to the union adds a method here, so every
// dispatcher stops compiling until it handles the new type.
type Visitor[R any] interface {
	Appointment(d *AppointmentData) R
	Callback(d *CallbackData) R
	Inspection(d *InspectionData) R
	Maintenance(d *MaintenanceData) R
	Note(d *NoteData) R
	PublicHoliday(d *PublicHolidayData) R
	SickLeave(d *SickLeaveData) R
	StaffHoliday(d *StaffHolidayData) R
	StaffMeeting(d *StaffMeetingData) R
	Training(d *TrainingData) R
	Valuation(d *ValuationData) R
	Viewing(d *ViewingData) R
}

// Dispatch calls the method of v matching the type of d.
func Dispatch[R any](d EventData, v Visitor[R]) R {
	a := &adapter[R]{v: v}
	d.accept(a)

	return a.out
}

type visitor interface {
	appointment(d *AppointmentData)
	callback(d *CallbackData)
	inspection(d *InspectionData)
	maintenance(d *MaintenanceData)
	note(d *NoteData)
	publicHoliday(d *PublicHolidayData)
	sickLeave(d *SickLeaveData)
	staffHoliday(d *StaffHolidayData)
	staffMeeting(d *StaffMeetingData)
	training(d *TrainingData)
	valuation(d *ValuationData)
	viewing(d *ViewingData)
}

type adapter[R any] struct {
	v   Visitor[R]
	out R
}

func (a *adapter[R]) appointment(d *AppointmentData)     { a.out = a.v.Appointment(d) }
func (a *adapter[R]) callback(d *CallbackData)           { a.out = a.v.Callback(d) }
func (a *adapter[R]) inspection(d *InspectionData)       { a.out = a.v.Inspection(d) }
func (a *adapter[R]) maintenance(d *MaintenanceData)     { a.out = a.v.Maintenance(d) }
func (a *adapter[R]) note(d *NoteData)                   { a.out = a.v.Note(d) }
func (a *adapter[R]) publicHoliday(d *PublicHolidayData) { a.out = a.v.PublicHoliday(d) }
func (a *adapter[R]) sickLeave(d *SickLeaveData)         { a.out = a.v.SickLeave(d) }
func (a *adapter[R]) staffHoliday(d *StaffHolidayData)   { a.out = a.v.StaffHoliday(d) }
func (a *adapter[R]) staffMeeting(d *StaffMeetingData)   { a.out = a.v.StaffMeeting(d) }
func (a *adapter[R]) training(d *TrainingData)           { a.out = a.v.Training(d) }
func (a *adapter[R]) valuation(d *ValuationData)         { a.out = a.v.Valuation(d) }
func (a *adapter[R]) viewing(d *ViewingData)             { a.out = a.v.Viewing(d) }

func (d *AppointmentData) accept(v visitor)   { v.appointment(d) }
func (d *CallbackData) accept(v visitor)      { v.callback(d) }
func (d *InspectionData) accept(v visitor)    { v.inspection(d) }
func (d *MaintenanceData) accept(v visitor)   { v.maintenance(d) }
func (d *NoteData) accept(v visitor)          { v.note(d) }
func (d *PublicHolidayData) accept(v visitor) { v.publicHoliday(d) }
func (d *SickLeaveData) accept(v visitor)     { v.sickLeave(d) }
func (d *StaffHolidayData) accept(v visitor)  { v.staffHoliday(d) }
func (d *StaffMeetingData) accept(v visitor)  { v.staffMeeting(d) }
func (d *TrainingData) accept(v visitor)      { v.training(d) }
func (d *ValuationData) accept(v visitor)     { v.valuation(d) }
func (d *ViewingData) accept(v visitor)       { v.viewing(d) }
