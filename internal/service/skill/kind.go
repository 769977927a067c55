package skill

import "github.com/seu-repo/voice-profile-skill/internal/domain"

// RequestKind is the closed set of requests the skill distinguishes.
type RequestKind int

const (
	KindUnhandled RequestKind = iota
	KindLaunch
	KindFullName
	KindGivenName
	KindNumber
	KindHelp
	KindStopCancel
	KindSessionEnded
)

func (k RequestKind) String() string {
	switch k {
	case KindLaunch:
		return "launch"
	case KindFullName:
		return "full_name"
	case KindGivenName:
		return "given_name"
	case KindNumber:
		return "number"
	case KindHelp:
		return "help"
	case KindStopCancel:
		return "stop_cancel"
	case KindSessionEnded:
		return "session_ended"
	default:
		return "unhandled"
	}
}

// Classify maps an envelope to exactly one kind. The name intent that does not
// belong to the configured mode is unhandled.
func Classify(env *domain.RequestEnvelope, mode domain.Mode) RequestKind {
	switch env.RequestType() {
	case domain.RequestTypeLaunch:
		return KindLaunch
	case domain.RequestTypeSessionEnded:
		return KindSessionEnded
	case domain.RequestTypeIntent:
		switch env.IntentName() {
		case domain.IntentProfileFullName:
			if mode == domain.ModeFullName {
				return KindFullName
			}
		case domain.IntentProfileGivenName:
			if mode != domain.ModeFullName {
				return KindGivenName
			}
		case domain.IntentProfileNumber:
			return KindNumber
		case domain.IntentHelp:
			return KindHelp
		case domain.IntentStop, domain.IntentCancel:
			return KindStopCancel
		}
	}
	return KindUnhandled
}
