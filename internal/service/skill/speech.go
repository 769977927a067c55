package skill

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"

	"github.com/seu-repo/voice-profile-skill/internal/domain"
)

// Message keys.
const (
	msgIntro                = "launch.intro"
	msgQuestion             = "launch.question"
	msgLabelFullName        = "label.full_name"
	msgLabelGivenName       = "label.given_name"
	msgGrantLabelFullName   = "grant_label.full_name"
	msgGrantLabelGivenName  = "grant_label.given_name"
	msgVoiceProfileRequired = "profile.voice_profile_required"
	msgNoVoiceProfile       = "profile.voice_profile_missing"
	msgFullNameUnset        = "profile.full_name.unset"
	msgFullNameIs           = "profile.full_name.value"
	msgGivenNameUnset       = "profile.given_name.unset"
	msgGivenNameIs          = "profile.given_name.value"
	msgNumberUnset          = "profile.number.unset"
	msgNumberIs             = "profile.number.value"
	msgLookupFailed         = "profile.lookup_failed"
	msgPermissionRequired   = "error.permission_required"
	msgServiceFailed        = "error.service_failed"
	msgHelp                 = "help"
	msgUnsupported          = "unsupported"
	msgGoodbye              = "goodbye"
)

// supportedLocales lists the catalog languages; the first one is the fallback.
var supportedLocales = []language.Tag{
	language.Japanese,
	language.AmericanEnglish,
}

var localeMatcher = language.NewMatcher(supportedLocales)

var speechCatalog = mustBuildCatalog()

var catalogMessages = map[language.Tag]map[string]string{
	language.Japanese: {
		msgIntro:                "音声プロフィールAPIのデモです。",
		msgQuestion:             "あなたの、%s、電話番号の、どちらを聞きたいですか？",
		msgLabelFullName:        "フルネーム",
		msgLabelGivenName:       "名前",
		msgGrantLabelFullName:   "氏名",
		msgGrantLabelGivenName:  "名前",
		msgVoiceProfileRequired: "音声プロフィールが認識されませんでした。アレクサアプリから、音声プロフィールを有効にして再度お試しください。",
		msgNoVoiceProfile:       "音声プロフィールが登録されていません。アレクサアプリから、音声プロフィールを登録して再度お試しください。",
		msgFullNameUnset:        "氏名が設定されていないようです。アレクサアプリで氏名を設定してください。",
		msgFullNameIs:           "あなたのフルネームは、%s です。",
		msgGivenNameUnset:       "名前が設定されていないようです。アレクサアプリで名前を設定してください。",
		msgGivenNameIs:          "あなたの名前は、%s です。",
		msgNumberUnset:          "電話番号が設定されていないようです。アレクサアプリで電話番号を設定してください。",
		msgNumberIs:             "あなたの電話番号は、%s です。",
		msgLookupFailed:         "すいません、うまくいかないようです。",
		msgPermissionRequired:   "音声プロフィールのアクセス権が許可されていません。アレクサアプリでこのスキルの設定画面を開き、音声プロフィールから%sと電話番号への権限を許可してください。",
		msgServiceFailed:        "音声プロフィールAPIへのアクセスでエラーが発生しました。もう一度やり直してください。",
		msgHelp:                 "例えば、私の%sを教えて？というふうに言ってみてください。",
		msgUnsupported:          "すいません、それはサポートされていません。例えば、私の%sを教えて？というふうに言ってみてください。",
		msgGoodbye:              "さようなら、またね。",
	},
	language.AmericanEnglish: {
		msgIntro:                "This is the voice profile API demo. ",
		msgQuestion:             "Would you like to hear your %s or your phone number?",
		msgLabelFullName:        "full name",
		msgLabelGivenName:       "name",
		msgGrantLabelFullName:   "full name",
		msgGrantLabelGivenName:  "given name",
		msgVoiceProfileRequired: "I couldn't recognize your voice profile. Please enable voice profiles in the Alexa app and try again.",
		msgNoVoiceProfile:       "You don't have a voice profile yet. Please register a voice profile in the Alexa app and try again.",
		msgFullNameUnset:        "It looks like your full name isn't set. Please set your full name in the Alexa app.",
		msgFullNameIs:           "Your full name is %s.",
		msgGivenNameUnset:       "It looks like your name isn't set. Please set your name in the Alexa app.",
		msgGivenNameIs:          "Your name is %s.",
		msgNumberUnset:          "It looks like your phone number isn't set. Please set your phone number in the Alexa app.",
		msgNumberIs:             "Your phone number is %s.",
		msgLookupFailed:         "Sorry, something went wrong.",
		msgPermissionRequired:   "This skill doesn't have permission to read your voice profile. Open this skill's settings in the Alexa app and allow access to your %s and phone number.",
		msgServiceFailed:        "Something went wrong while reading your voice profile. Please try again.",
		msgHelp:                 "You can say, for example, tell me my %s.",
		msgUnsupported:          "Sorry, that isn't supported. You can say, for example, tell me my %s.",
		msgGoodbye:              "Goodbye, see you next time.",
	},
}

func mustBuildCatalog() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(supportedLocales[0]))
	for tag, messages := range catalogMessages {
		for key, msg := range messages {
			if err := b.SetString(tag, key, msg); err != nil {
				panic(fmt.Sprintf("speech catalog: %s/%s: %v", tag, key, err))
			}
		}
	}
	return b
}

// speech renders localized SSML fragments for one request.
type speech struct {
	p    *message.Printer
	mode domain.Mode
}

func newSpeech(locale string, mode domain.Mode) speech {
	return speech{
		p:    message.NewPrinter(matchLocale(locale), message.Catalog(speechCatalog)),
		mode: mode,
	}
}

func matchLocale(locale string) language.Tag {
	tag, err := language.Parse(locale)
	if err != nil {
		return supportedLocales[0]
	}
	_, idx, conf := localeMatcher.Match(tag)
	if conf == language.No {
		return supportedLocales[0]
	}
	return supportedLocales[idx]
}

func (s speech) text(key string, args ...interface{}) string {
	return s.p.Sprintf(key, args...)
}

// nameLabel is how the active name scope is called in prompts.
func (s speech) nameLabel() string {
	if s.mode == domain.ModeFullName {
		return s.text(msgLabelFullName)
	}
	return s.text(msgLabelGivenName)
}

func (s speech) grantLabel() string {
	if s.mode == domain.ModeFullName {
		return s.text(msgGrantLabelFullName)
	}
	return s.text(msgGrantLabelGivenName)
}

var ssmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

// escapeSSML makes profile values safe to embed in SSML.
func escapeSSML(s string) string {
	return ssmlEscaper.Replace(s)
}

// telephone wraps a number so the synthesizer reads it digit by digit.
func telephone(n domain.MobileNumber) string {
	return `<say-as interpret-as="telephone">` + escapeSSML(n.String()) + `</say-as>`
}
