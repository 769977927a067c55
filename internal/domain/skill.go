package domain

import "errors"

// Request types delivered by the voice platform.
const (
	RequestTypeLaunch       = "LaunchRequest"
	RequestTypeIntent       = "IntentRequest"
	RequestTypeSessionEnded = "SessionEndedRequest"
)

// Intent names declared in the interaction model.
const (
	IntentProfileFullName  = "ProfileFullNameIntent"
	IntentProfileGivenName = "ProfileGivenNameIntent"
	IntentProfileNumber    = "ProfileNumberIntent"
	IntentHelp             = "AMAZON.HelpIntent"
	IntentStop             = "AMAZON.StopIntent"
	IntentCancel           = "AMAZON.CancelIntent"
)

var ErrInvalidEnvelope = errors.New("invalid request envelope")

// RequestEnvelope is the inbound event for one utterance or session lifecycle signal.
// https://developer.amazon.com/docs/custom-skills/request-and-response-json-reference.html
type RequestEnvelope struct {
	Version string   `json:"version"`
	Session *Session `json:"session,omitempty"`
	Context Context  `json:"context"`
	Request Request  `json:"request"`
}

type Session struct {
	New         bool                   `json:"new"`
	SessionID   string                 `json:"sessionId"`
	Application Application            `json:"application"`
	Attributes  map[string]interface{} `json:"attributes,omitempty"`
	User        User                   `json:"user"`
}

type Application struct {
	ApplicationID string `json:"applicationId"`
}

type User struct {
	UserID string `json:"userId"`
}

type Context struct {
	System System `json:"System"`
}

type System struct {
	Application    Application `json:"application"`
	User           User        `json:"user"`
	Person         *Person     `json:"person,omitempty"`
	Device         *Device     `json:"device,omitempty"`
	APIEndpoint    string      `json:"apiEndpoint"`
	APIAccessToken string      `json:"apiAccessToken"`
}

// Person is set only when the platform recognized the speaker's voice profile.
type Person struct {
	PersonID string `json:"personId"`
}

type Device struct {
	DeviceID string `json:"deviceId"`
}

type Request struct {
	Type      string        `json:"type"`
	RequestID string        `json:"requestId"`
	Timestamp string        `json:"timestamp"`
	Locale    string        `json:"locale,omitempty"`
	Intent    *Intent       `json:"intent,omitempty"`
	Reason    string        `json:"reason,omitempty"`
	Error     *RequestError `json:"error,omitempty"`
}

type Intent struct {
	Name               string          `json:"name"`
	ConfirmationStatus string          `json:"confirmationStatus,omitempty"`
	Slots              map[string]Slot `json:"slots,omitempty"`
}

type Slot struct {
	Name  string `json:"name"`
	Value string `json:"value,omitempty"`
}

// RequestError accompanies a SessionEndedRequest whose reason is ERROR.
type RequestError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// APIAccess carries what is needed to call platform APIs on behalf of the request.
type APIAccess struct {
	Endpoint string
	Token    string
}

func (e *RequestEnvelope) RequestType() string {
	return e.Request.Type
}

// IntentName returns the intent name, or "" for non-intent requests.
func (e *RequestEnvelope) IntentName() string {
	if e.Request.Type != RequestTypeIntent || e.Request.Intent == nil {
		return ""
	}
	return e.Request.Intent.Name
}

func (e *RequestEnvelope) Locale() string {
	return e.Request.Locale
}

// Person returns the recognized speaker, or nil.
func (e *RequestEnvelope) Person() *Person {
	p := e.Context.System.Person
	if p == nil || p.PersonID == "" {
		return nil
	}
	return p
}

func (e *RequestEnvelope) APIAccess() APIAccess {
	return APIAccess{
		Endpoint: e.Context.System.APIEndpoint,
		Token:    e.Context.System.APIAccessToken,
	}
}

// ApplicationID prefers the system context and falls back to the session.
func (e *RequestEnvelope) ApplicationID() string {
	if id := e.Context.System.Application.ApplicationID; id != "" {
		return id
	}
	if e.Session != nil {
		return e.Session.Application.ApplicationID
	}
	return ""
}

// UserID identifies the account behind the request, system context first.
func (e *RequestEnvelope) UserID() string {
	if id := e.Context.System.User.UserID; id != "" {
		return id
	}
	if e.Session != nil {
		return e.Session.User.UserID
	}
	return ""
}

func (e *RequestEnvelope) Validate() error {
	if e.Request.Type == "" {
		return ErrInvalidEnvelope
	}
	if e.Request.Type == RequestTypeIntent && (e.Request.Intent == nil || e.Request.Intent.Name == "") {
		return ErrInvalidEnvelope
	}
	return nil
}
