package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Mode selects which name scope the skill requests. The two scopes are mutually exclusive.
type Mode string

const (
	ModeFullName  Mode = "fullname"
	ModeGivenName Mode = "givenname"
)

// Customer Profile API permission scopes.
const (
	PermissionMobileNumberRead = "alexa::profile:mobile_number:read"
	PermissionNameRead         = "alexa::profile:name:read"
	PermissionGivenNameRead    = "alexa::profile:given_name:read"
)

const ServiceErrorName = "ServiceError"

var ErrInvalidMode = errors.New("invalid skill mode")

func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeFullName:
		return ModeFullName, nil
	case ModeGivenName:
		return ModeGivenName, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidMode, s)
	}
}

// Permissions derives the scopes requested in the consent card for the mode.
func (m Mode) Permissions() []string {
	if m == ModeFullName {
		return []string{PermissionMobileNumberRead, PermissionNameRead}
	}
	return []string{PermissionMobileNumberRead, PermissionGivenNameRead}
}

// SkillSettings is built once at start-up and shared read-only by every invocation.
type SkillSettings struct {
	mode        Mode
	permissions []string
}

func NewSkillSettings(mode string) (SkillSettings, error) {
	m, err := ParseMode(mode)
	if err != nil {
		return SkillSettings{}, err
	}
	return SkillSettings{mode: m, permissions: m.Permissions()}, nil
}

func (s SkillSettings) Mode() Mode {
	return s.mode
}

// Permissions returns a copy of the process-wide permission set.
func (s SkillSettings) Permissions() []string {
	return append([]string(nil), s.permissions...)
}

// MobileNumber as returned by the profile API.
type MobileNumber struct {
	CountryCode string `json:"countryCode"`
	PhoneNumber string `json:"phoneNumber"`
}

func (n MobileNumber) String() string {
	return strings.TrimSpace(n.CountryCode + " " + n.PhoneNumber)
}

func (n *MobileNumber) IsEmpty() bool {
	return n == nil || (n.CountryCode == "" && n.PhoneNumber == "")
}

// ServiceError is a non-2xx answer from a platform service API.
type ServiceError struct {
	Name       string `json:"name"`
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message,omitempty"`
}

func NewServiceError(statusCode int, message string) *ServiceError {
	return &ServiceError{Name: ServiceErrorName, StatusCode: statusCode, Message: message}
}

func (e *ServiceError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: status %d", ServiceErrorName, e.StatusCode)
	}
	return fmt.Sprintf("%s: status %d: %s", ServiceErrorName, e.StatusCode, e.Message)
}

// PermissionDenied reports a 403, i.e. the user has not granted the scope.
func (e *ServiceError) PermissionDenied() bool {
	return e.StatusCode == 403
}

func AsServiceError(err error) (*ServiceError, bool) {
	var se *ServiceError
	if errors.As(err, &se) && se != nil {
		return se, true
	}
	return nil, false
}
