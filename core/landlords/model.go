package landlords

import (
	"errors"
	"time"
)

var ErrLandlordNotFound = errors.New("landlord not found")

const (
	TypePrivate = "private"
	TypeCompany = "company"

	StatusActive   = "active"
	StatusInactive = "inactive"
)

type Landlord struct {
	ID            string    `json:"landlord_id,omitempty"`
	Type          string    `json:"landlord_type" binding:"required,oneof=private company"`
	Title         string    `json:"title,omitempty" binding:"omitempty,oneof=mr mrs miss ms dr prof rev other"`
	CompanyName   string    `json:"company_name,omitempty"`
	FullName      string    `json:"full_name,omitempty"`
	Email         string    `json:"email,omitempty" binding:"omitempty,email"`
	PhoneNr       string    `json:"phone_nr" binding:"required"`
	Status        string    `json:"status" binding:"required,oneof=active inactive"`
	StaffAssigned string    `json:"staff_assigned,omitempty"`
	CreatedAt     time.Time `json:"created_at,omitzero"`
	UpdatedAt     time.Time `json:"updated_at,omitzero"`
}

// Name is what lists sort and display by: the person for private landlords, the company
// otherwise.
func (l Landlord) Name() string {
	if l.Type == TypeCompany {
		return l.CompanyName
	}

	return l.FullName
}

// ListQuery selects and orders the landlord list.
type ListQuery struct {
	SortBy string `form:"sort_by"`
	Order  string `form:"order"`
	Status string `form:"status"`
}

var sortColumns = map[string]string{
	"name":       "coalesce(nullif(full_name, ''), company_name)",
	"created_at": "created_at",
	"updated_at": "updated_at",
	"email":      "email",
	"phone_nr":   "phone_nr",
}

// Normalize replaces unknown values with the defaults: name, asc, all.
func (q ListQuery) Normalize() ListQuery {
	if _, ok := sortColumns[q.SortBy]; !ok {
		q.SortBy = "name"
	}

	if q.Order != "asc" && q.Order != "desc" {
		q.Order = "asc"
	}

	if q.Status != StatusActive && q.Status != StatusInactive {
		q.Status = "all"
	}

	return q
}
