package skill

import (
	"testing"

	"github.com/seu-repo/voice-profile-skill/internal/domain"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		env  *domain.RequestEnvelope
		mode domain.Mode
		want RequestKind
	}{
		{"launch", launchEnvelope("ja-JP"), domain.ModeFullName, KindLaunch},
		{"full name in fullname mode", intentEnvelope(domain.IntentProfileFullName, "", true), domain.ModeFullName, KindFullName},
		{"full name in givenname mode", intentEnvelope(domain.IntentProfileFullName, "", true), domain.ModeGivenName, KindUnhandled},
		{"given name in givenname mode", intentEnvelope(domain.IntentProfileGivenName, "", true), domain.ModeGivenName, KindGivenName},
		{"given name in fullname mode", intentEnvelope(domain.IntentProfileGivenName, "", true), domain.ModeFullName, KindUnhandled},
		{"number", intentEnvelope(domain.IntentProfileNumber, "", true), domain.ModeGivenName, KindNumber},
		{"help", intentEnvelope(domain.IntentHelp, "", false), domain.ModeFullName, KindHelp},
		{"stop", intentEnvelope(domain.IntentStop, "", false), domain.ModeFullName, KindStopCancel},
		{"cancel", intentEnvelope(domain.IntentCancel, "", false), domain.ModeFullName, KindStopCancel},
		{"unknown intent", intentEnvelope("PizzaIntent", "", false), domain.ModeFullName, KindUnhandled},
		{"session ended", &domain.RequestEnvelope{Request: domain.Request{Type: domain.RequestTypeSessionEnded}}, domain.ModeFullName, KindSessionEnded},
		{"unknown request type", &domain.RequestEnvelope{Request: domain.Request{Type: "Display.ElementSelected"}}, domain.ModeFullName, KindUnhandled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.env, tt.mode); got != tt.want {
				t.Errorf("Classify() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestNameHandlers_ExactlyOneMatches(t *testing.T) {
	for _, mode := range []string{"fullname", "givenname"} {
		settings := mustSettings(t, mode)
		fullName := NewFullNameHandler(settings, nil, newTestLogger())
		givenName := NewGivenNameHandler(settings, nil, newTestLogger())

		for _, intent := range []string{domain.IntentProfileFullName, domain.IntentProfileGivenName} {
			env := intentEnvelope(intent, "ja-JP", true)
			full, given := fullName.CanHandle(env), givenName.CanHandle(env)

			if full && given {
				t.Errorf("%s/%s: both name handlers match", mode, intent)
			}
			wantFull := mode == "fullname" && intent == domain.IntentProfileFullName
			wantGiven := mode == "givenname" && intent == domain.IntentProfileGivenName
			if full != wantFull || given != wantGiven {
				t.Errorf("%s/%s: full=%v given=%v, want full=%v given=%v", mode, intent, full, given, wantFull, wantGiven)
			}
		}

		// For the same envelope one name intent is live and the other is not.
		fullEnv := intentEnvelope(domain.IntentProfileFullName, "ja-JP", true)
		givenEnv := intentEnvelope(domain.IntentProfileGivenName, "ja-JP", true)
		if fullName.CanHandle(fullEnv) == givenName.CanHandle(givenEnv) {
			t.Errorf("%s: exactly one name intent must be handled", mode)
		}
	}
}

func TestUnhandledHandler_MatchesEverything(t *testing.T) {
	h := NewUnhandledHandler(mustSettings(t, "fullname"))

	for _, env := range []*domain.RequestEnvelope{
		launchEnvelope("en-US"),
		intentEnvelope("AnythingIntent", "en-US", false),
		intentEnvelope(domain.IntentHelp, "en-US", false),
	} {
		if !h.CanHandle(env) {
			t.Errorf("unhandled handler must match %s", env.IntentName())
		}
	}
}
