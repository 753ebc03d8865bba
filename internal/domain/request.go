package domain

import "time"

// RequestStatus enumerates lifecycle states for service requests.
type RequestStatus string

const (
	RequestStatusPending    RequestStatus = "Pending"
	RequestStatusInProgress RequestStatus = "In Progress"
	RequestStatusResolved   RequestStatus = "Resolved"
)

// ValidStatus reports whether s is one of the known lifecycle states.
func ValidStatus(s RequestStatus) bool {
	switch s {
	case RequestStatusPending, RequestStatusInProgress, RequestStatusResolved:
		return true
	}
	return false
}

// RequestCategory enumerates the supported request categories.
type RequestCategory string

const (
	CategoryPasswordReset RequestCategory = "Password Reset"
	CategoryPrinterIssue  RequestCategory = "Printer Issue"
	CategorySoftwareInst  RequestCategory = "Software Installation"
	CategoryNetwork       RequestCategory = "Network Problem"
	CategoryOther         RequestCategory = "Other"
)

// ValidCategory reports whether c is one of the known categories.
func ValidCategory(c RequestCategory) bool {
	switch c {
	case CategoryPasswordReset, CategoryPrinterIssue, CategorySoftwareInst, CategoryNetwork, CategoryOther:
		return true
	}
	return false
}

// ServiceRequest is the aggregate for IT service tickets. RequesterID is the
// stable ownership reference; RequesterName is a display snapshot taken at
// submission time and is never used for access checks.
type ServiceRequest struct {
	ID            string
	RequesterID   string
	RequesterName string
	Department    string
	Category      RequestCategory
	Description   string
	Status        RequestStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
	ResolvedAt    *time.Time
	ResolvedByID  *string
}
