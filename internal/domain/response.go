package domain

import "strings"

const (
	OutputSpeechTypeSSML       = "SSML"
	CardTypePermissionsConsent = "AskForPermissionsConsent"
	ResponseVersion            = "1.0"
)

// ResponseEnvelope is the wire form returned to the platform.
type ResponseEnvelope struct {
	Version           string                 `json:"version"`
	SessionAttributes map[string]interface{} `json:"sessionAttributes,omitempty"`
	Response          *Response              `json:"response"`
}

// Response describes what the device says and shows for one invocation.
type Response struct {
	OutputSpeech     *OutputSpeech `json:"outputSpeech,omitempty"`
	Reprompt         *Reprompt     `json:"reprompt,omitempty"`
	Card             *Card         `json:"card,omitempty"`
	ShouldEndSession *bool         `json:"shouldEndSession,omitempty"`
}

type OutputSpeech struct {
	Type string `json:"type"`
	SSML string `json:"ssml"`
}

type Reprompt struct {
	OutputSpeech *OutputSpeech `json:"outputSpeech"`
}

// Card is a consent card rendered by the companion app.
type Card struct {
	Type        string   `json:"type"`
	Permissions []string `json:"permissions,omitempty"`
}

func NewResponseEnvelope(resp *Response) *ResponseEnvelope {
	if resp == nil {
		resp = &Response{}
	}
	return &ResponseEnvelope{
		Version:  ResponseVersion,
		Response: resp,
	}
}

// SpeechText returns the spoken text without the <speak> wrapper.
func (r *Response) SpeechText() string {
	if r == nil || r.OutputSpeech == nil {
		return ""
	}
	return unwrapSpeak(r.OutputSpeech.SSML)
}

func (r *Response) RepromptText() string {
	if r == nil || r.Reprompt == nil || r.Reprompt.OutputSpeech == nil {
		return ""
	}
	return unwrapSpeak(r.Reprompt.OutputSpeech.SSML)
}

// Permissions returns the scopes requested by the consent card, if any.
func (r *Response) Permissions() []string {
	if r == nil || r.Card == nil || r.Card.Type != CardTypePermissionsConsent {
		return nil
	}
	return r.Card.Permissions
}

// EndsSession reports whether the platform should close the session after this response.
func (r *Response) EndsSession() bool {
	return r != nil && r.ShouldEndSession != nil && *r.ShouldEndSession
}

// ResponseBuilder assembles a Response. Response() returns a fresh value each call.
type ResponseBuilder struct {
	speech      string
	reprompt    string
	permissions []string
	endSession  *bool
}

func NewResponseBuilder() *ResponseBuilder {
	return &ResponseBuilder{}
}

func (b *ResponseBuilder) Speak(ssml string) *ResponseBuilder {
	b.speech = ssml
	return b
}

// Reprompt keeps the session open, waiting for the user's answer.
func (b *ResponseBuilder) Reprompt(ssml string) *ResponseBuilder {
	b.reprompt = ssml
	open := false
	b.endSession = &open
	return b
}

func (b *ResponseBuilder) WithAskForPermissionsConsentCard(permissions []string) *ResponseBuilder {
	b.permissions = append([]string(nil), permissions...)
	return b
}

func (b *ResponseBuilder) WithShouldEndSession(end bool) *ResponseBuilder {
	b.endSession = &end
	return b
}

func (b *ResponseBuilder) Response() *Response {
	resp := &Response{}
	if b.speech != "" {
		resp.OutputSpeech = ssmlSpeech(b.speech)
	}
	if b.reprompt != "" {
		resp.Reprompt = &Reprompt{OutputSpeech: ssmlSpeech(b.reprompt)}
	}
	if b.permissions != nil {
		resp.Card = &Card{
			Type:        CardTypePermissionsConsent,
			Permissions: append([]string(nil), b.permissions...),
		}
	}
	if b.endSession != nil {
		end := *b.endSession
		resp.ShouldEndSession = &end
	}
	return resp
}

func ssmlSpeech(text string) *OutputSpeech {
	return &OutputSpeech{
		Type: OutputSpeechTypeSSML,
		SSML: "<speak>" + text + "</speak>",
	}
}

func unwrapSpeak(ssml string) string {
	ssml = strings.TrimPrefix(ssml, "<speak>")
	return strings.TrimSuffix(ssml, "</speak>")
}
