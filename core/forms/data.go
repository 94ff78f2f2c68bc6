package forms

import (
	"reflect"
	"slices"
)

// Base holds the fields every event type shares. Times are HH:MM wall-clock strings and stay
// empty until picked.
type Base struct {
	EventType Kind   `json:"eventType"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

func (b *Base) base() *Base { return b }

// Recurrence is carried by the event types that can repeat.
type Recurrence struct {
	IsRecurring       bool   `json:"isRecurring"`
	RecurrencePattern string `json:"recurrencePattern,omitempty"`
}

// Repeats returns the recurrence pattern when the event is recurring.
func (r *Recurrence) Repeats() (string, bool) {
	return r.RecurrencePattern, r.IsRecurring && r.RecurrencePattern != ""
}

// EventData is the closed union of the per-type form payloads. Its attribute set is fixed by
// its Kind.
type EventData interface {
	Kind() Kind
	base() *Base
	accept(v visitor)
	clone() EventData
}

// Recurring is implemented by the event types carrying a Recurrence.
type Recurring interface {
	Repeats() (string, bool)
}

// absent reports whether d is nil or a typed nil payload such as (*ViewingData)(nil).
func absent(d EventData) bool {
	if d == nil {
		return true
	}

	v := reflect.ValueOf(d)

	return v.Kind() == reflect.Pointer && v.IsNil()
}

// Times returns the shared start and end time of d.
func Times(d EventData) (string, string) {
	b := d.base()
	return b.StartTime, b.EndTime
}

// Clone returns a deep copy of d.
func Clone(d EventData) EventData {
	if absent(d) {
		return nil
	}

	return d.clone()
}

type ViewingData struct {
	Base
	Property         string   `json:"property"`
	Staff            []string `json:"staff"`
	ViewingStatus    string   `json:"viewingStatus,omitempty"`
	IsSecondViewing  bool     `json:"isSecondViewing"`
	IsVirtualViewing bool     `json:"isVirtualViewing"`
	Arrangements     string   `json:"arrangements,omitempty"`
	Feedback         string   `json:"feedback,omitempty"`
	InternalNotes    string   `json:"internalNotes,omitempty"`
	FollowUpDate     string   `json:"followUpDate"`
	IsClosed         bool     `json:"isClosed"`
	SendNotification bool     `json:"sendNotification"`
}

type AppointmentData struct {
	Base
	Recurrence
	AppointmentType     string   `json:"appointmentType"`
	Title               string   `json:"title"`
	Location            string   `json:"location,omitempty"`
	Property            string   `json:"property,omitempty"`
	Description         string   `json:"description,omitempty"`
	Staff               []string `json:"staff"`
	AdditionalAttendees []string `json:"additionalAttendees,omitempty"`
	IsPrivate           bool     `json:"isPrivate"`
	SendNotification    bool     `json:"sendNotification"`
}

type CallbackData struct {
	Base
	Contact          string   `json:"contact"`
	Description      string   `json:"description,omitempty"`
	Staff            []string `json:"staff"`
	SendNotification bool     `json:"sendNotification"`
}

type InspectionData struct {
	Base
	InspectionType    string   `json:"inspectionType"`
	Letting           string   `json:"letting,omitempty"`
	InspectionStatus  string   `json:"inspectionStatus,omitempty"`
	StaffInspectors   []string `json:"staffInspectors"`
	SupplierInspector string   `json:"supplierInspector,omitempty"`
	OfficeNotes       string   `json:"officeNotes,omitempty"`
	TenantConfirmed   bool     `json:"tenantConfirmed"`
	SendNotification  bool     `json:"sendNotification"`
}

type MaintenanceData struct {
	Base
	MaintenanceType   string   `json:"maintenanceType"`
	MaintenanceJob    string   `json:"maintenanceJob,omitempty"`
	Staff             []string `json:"staff"`
	MaintenanceStatus string   `json:"maintenanceStatus,omitempty"`
	Property          string   `json:"property,omitempty"`
	Description       string   `json:"description,omitempty"`
	SupplierAssigned  string   `json:"supplierAssigned,omitempty"`
	EstimatedCost     *float64 `json:"estimatedCost,omitempty"`
	ActualCost        *float64 `json:"actualCost,omitempty"`
	Priority          string   `json:"priority"`
	CompletionNotes   string   `json:"completionNotes,omitempty"`
	SendNotification  bool     `json:"sendNotification"`
}

type NoteData struct {
	Base
	Recurrence
	NoteType         string   `json:"noteType"`
	Note             string   `json:"note,omitempty"`
	Staff            []string `json:"staff"`
	IsPrivate        bool     `json:"isPrivate"`
	SendNotification bool     `json:"sendNotification"`
}

type PublicHolidayData struct {
	Base
	HolidayName             string   `json:"holidayName,omitempty"`
	Description             string   `json:"description,omitempty"`
	IsNationwide            bool     `json:"isNationwide"`
	Region                  string   `json:"region,omitempty"`
	AffectedServices        []string `json:"affectedServices,omitempty"`
	IsAnnualRecurring       bool     `json:"isAnnualRecurring"`
	OfficeStatus            string   `json:"officeStatus"`
	StaffRequired           []string `json:"staffRequired,omitempty"`
	AlternativeArrangements string   `json:"alternativeArrangements,omitempty"`
	SendNotification        bool     `json:"sendNotification"`
}

type SickLeaveData struct {
	Base
	Recurrence
	LeaveType        string `json:"leaveType"`
	Title            string `json:"title,omitempty"`
	Description      string `json:"description,omitempty"`
	SendNotification bool   `json:"sendNotification"`
}

type StaffHolidayData struct {
	Base
	Recurrence
	HolidayType      string `json:"holidayType"`
	Title            string `json:"title,omitempty"`
	Description      string `json:"description,omitempty"`
	StartDate        string `json:"startDate,omitempty"`
	EndDate          string `json:"endDate,omitempty"`
	SendNotification bool   `json:"sendNotification"`
}

type StaffMeetingData struct {
	Base
	Title            string   `json:"title,omitempty"`
	MeetingType      string   `json:"meetingType"`
	Location         string   `json:"location,omitempty"`
	Agenda           string   `json:"agenda,omitempty"`
	InternalNotes    string   `json:"internalNotes,omitempty"`
	Staff            []string `json:"staff"`
	SendNotification bool     `json:"sendNotification"`
}

type TrainingData struct {
	Base
	Recurrence
	TrainingType        string `json:"trainingType"`
	Title               string `json:"title,omitempty"`
	Location            string `json:"location,omitempty"`
	Description         string `json:"description,omitempty"`
	LeadStaff           string `json:"leadStaff,omitempty"`
	AdditionalAttendees string `json:"additionalAttendees,omitempty"`
	SendNotification    bool   `json:"sendNotification"`
}

type ValuationData struct {
	Base
	PropertyOwner     string   `json:"propertyOwner,omitempty"`
	Location          string   `json:"location,omitempty"`
	Staff             []string `json:"staff"`
	InstructionStatus string   `json:"instructionStatus"`
	FollowUpDate      string   `json:"followUpDate,omitempty"`
	Notes             string   `json:"notes,omitempty"`
	Title             string   `json:"title,omitempty"`
	SendNotification  bool     `json:"sendNotification"`
}

func (*ViewingData) Kind() Kind       { return KindViewing }
func (*AppointmentData) Kind() Kind   { return KindAppointment }
func (*CallbackData) Kind() Kind      { return KindCallback }
func (*InspectionData) Kind() Kind    { return KindInspection }
func (*MaintenanceData) Kind() Kind   { return KindMaintenance }
func (*NoteData) Kind() Kind          { return KindNote }
func (*PublicHolidayData) Kind() Kind { return KindPublicHoliday }
func (*SickLeaveData) Kind() Kind     { return KindSickLeave }
func (*StaffHolidayData) Kind() Kind  { return KindStaffHoliday }
func (*StaffMeetingData) Kind() Kind  { return KindStaffMeeting }
func (*TrainingData) Kind() Kind      { return KindTraining }
func (*ValuationData) Kind() Kind     { return KindValuation }

func (d *ViewingData) clone() EventData {
	c := *d
	c.Staff = slices.Clone(d.Staff)

	return &c
}

func (d *AppointmentData) clone() EventData {
	c := *d
	c.Staff = slices.Clone(d.Staff)
	c.AdditionalAttendees = slices.Clone(d.AdditionalAttendees)

	return &c
}

func (d *CallbackData) clone() EventData {
	c := *d
	c.Staff = slices.Clone(d.Staff)

	return &c
}

func (d *InspectionData) clone() EventData {
	c := *d
	c.StaffInspectors = slices.Clone(d.StaffInspectors)

	return &c
}

func (d *MaintenanceData) clone() EventData {
	c := *d
	c.Staff = slices.Clone(d.Staff)
	c.EstimatedCost = clonePtr(d.EstimatedCost)
	c.ActualCost = clonePtr(d.ActualCost)

	return &c
}

func (d *NoteData) clone() EventData {
	c := *d
	c.Staff = slices.Clone(d.Staff)

	return &c
}

func (d *PublicHolidayData) clone() EventData {
	c := *d
	c.AffectedServices = slices.Clone(d.AffectedServices)
	c.StaffRequired = slices.Clone(d.StaffRequired)

	return &c
}

func (d *SickLeaveData) clone() EventData {
	c := *d
	return &c
}

func (d *StaffHolidayData) clone() EventData {
	c := *d
	return &c
}

func (d *StaffMeetingData) clone() EventData {
	c := *d
	c.Staff = slices.Clone(d.Staff)

	return &c
}

func (d *TrainingData) clone() EventData {
	c := *d
	return &c
}

func (d *ValuationData) clone() EventData {
	c := *d
	c.Staff = slices.Clone(d.Staff)

	return &c
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}

	v := *p

	return &v
}
