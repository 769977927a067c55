package skill

import (
	"testing"

	"golang.org/x/text/language"

	"github.com/seu-repo/voice-profile-skill/internal/domain"
)

func TestMatchLocale(t *testing.T) {
	tests := []struct {
		locale string
		want   language.Tag
	}{
		{"ja-JP", language.Japanese},
		{"en-US", language.AmericanEnglish},
		{"en-GB", language.AmericanEnglish},
		{"", language.Japanese},
		{"not a locale!", language.Japanese},
	}

	for _, tt := range tests {
		if got := matchLocale(tt.locale); got != tt.want {
			t.Errorf("matchLocale(%q) = %s, want %s", tt.locale, got, tt.want)
		}
	}
}

func TestCatalog_EveryLocaleHasEveryKey(t *testing.T) {
	fallback := catalogMessages[supportedLocales[0]]
	for _, tag := range supportedLocales[1:] {
		messages := catalogMessages[tag]
		for key := range fallback {
			if _, ok := messages[key]; !ok {
				t.Errorf("%s is missing %q", tag, key)
			}
		}
		if len(messages) != len(fallback) {
			t.Errorf("%s has %d messages, fallback has %d", tag, len(messages), len(fallback))
		}
	}
}

func TestSpeech_LabelsFollowMode(t *testing.T) {
	full := newSpeech("en-US", domain.ModeFullName)
	given := newSpeech("en-US", domain.ModeGivenName)

	if full.nameLabel() != "full name" || given.nameLabel() != "name" {
		t.Errorf("unexpected labels %q / %q", full.nameLabel(), given.nameLabel())
	}
	if got := given.text(msgHelp, given.nameLabel()); got != "You can say, for example, tell me my name." {
		t.Errorf("unexpected help text %q", got)
	}

	ja := newSpeech("ja-JP", domain.ModeGivenName)
	if got := ja.text(msgHelp, ja.nameLabel()); got != "例えば、私の名前を教えて？というふうに言ってみてください。" {
		t.Errorf("unexpected japanese help text %q", got)
	}
}

func TestEscapeSSML(t *testing.T) {
	got := escapeSSML(`<b>"O'Neil" & co</b>`)
	want := "&lt;b&gt;&quot;O&apos;Neil&quot; &amp; co&lt;/b&gt;"
	if got != want {
		t.Errorf("escapeSSML() = %q, want %q", got, want)
	}
}

func TestTelephone(t *testing.T) {
	got := telephone(domain.MobileNumber{CountryCode: "+81", PhoneNumber: "9012345678"})
	want := `<say-as interpret-as="telephone">+81 9012345678</say-as>`
	if got != want {
		t.Errorf("telephone() = %q, want %q", got, want)
	}
}
