package forms

import "fmt"

// NewEventData returns the default form payload of kind. Every call returns a fresh value.
func NewEventData(kind Kind) (EventData, error) {
	switch kind {
	case KindViewing:
		return &ViewingData{
			Base:          Base{EventType: kind},
			Property:      "",
			Staff:         []string{},
			ViewingStatus: "Scheduled",
			FollowUpDate:  "",
		}, nil
	case KindAppointment:
		return &AppointmentData{
			Base:  Base{EventType: kind},
			Staff: []string{},
		}, nil
	case KindCallback:
		return &CallbackData{
			Base:  Base{EventType: kind},
			Staff: []string{},
		}, nil
	case KindInspection:
		return &InspectionData{
			Base:            Base{EventType: kind},
			InspectionType:  "Periodic",
			StaffInspectors: []string{},
		}, nil
	case KindMaintenance:
		return &MaintenanceData{
			Base:            Base{EventType: kind},
			MaintenanceType: "Routine",
			Staff:           []string{},
			Priority:        "Medium",
		}, nil
	case KindNote:
		return &NoteData{
			Base:     Base{EventType: kind},
			NoteType: "General",
			Staff:    []string{},
		}, nil
	case KindPublicHoliday:
		return &PublicHolidayData{
			Base:         Base{EventType: kind},
			IsNationwide: true,
			OfficeStatus: "Closed",
		}, nil
	case KindSickLeave:
		return &SickLeaveData{
			Base:      Base{EventType: kind},
			LeaveType: "sick",
		}, nil
	case KindStaffHoliday:
		return &StaffHolidayData{
			Base:        Base{EventType: kind},
			HolidayType: "annual",
		}, nil
	case KindStaffMeeting:
		return &StaffMeetingData{
			Base:        Base{EventType: kind},
			MeetingType: "Team Meeting",
			Staff:       []string{},
		}, nil
	case KindTraining:
		return &TrainingData{
			Base:         Base{EventType: kind},
			TrainingType: "internal",
		}, nil
	case KindValuation:
		return &ValuationData{
			Base:              Base{EventType: kind},
			Staff:             []string{},
			InstructionStatus: "Awaiting Instruction",
		}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedKind, kind)
	}
}
