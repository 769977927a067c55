package handlers

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/seu-repo/voice-profile-skill/internal/adapter/http/fiber/middleware"
	"github.com/seu-repo/voice-profile-skill/internal/domain"
	"github.com/seu-repo/voice-profile-skill/internal/mocks"
	"github.com/seu-repo/voice-profile-skill/internal/service/skill"
)

func newTestApp(t *testing.T, mode string, profiles *mocks.MockProfileClient) *fiber.App {
	t.Helper()
	log := zap.NewNop()
	settings, err := domain.NewSkillSettings(mode)
	if err != nil {
		t.Fatalf("settings: %v", err)
	}

	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler(log)})
	h := NewSkillHandler(skill.NewRouter(settings, profiles, log), log)
	app.Post("/skill", h.Handle)
	return app
}

func postEnvelope(t *testing.T, app *fiber.App, body string) (int, *domain.ResponseEnvelope) {
	t.Helper()
	req := httptest.NewRequest("POST", "/skill", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		return resp.StatusCode, nil
	}

	var out domain.ResponseEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp.StatusCode, &out
}

func TestSkillHandler_Launch(t *testing.T) {
	// Arrange
	app := newTestApp(t, "fullname", mocks.NewMockProfileClient())
	body := `{"version":"1.0","request":{"type":"LaunchRequest","requestId":"r1","locale":"en-US"}}`

	// Act
	status, out := postEnvelope(t, app, body)

	// Assert
	if status != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if out.Version != "1.0" {
		t.Errorf("unexpected version %q", out.Version)
	}
	if out.Response.OutputSpeech == nil || out.Response.OutputSpeech.Type != domain.OutputSpeechTypeSSML {
		t.Fatalf("expected SSML speech, got %+v", out.Response.OutputSpeech)
	}
	if !strings.HasPrefix(out.Response.OutputSpeech.SSML, "<speak>This is the voice profile API demo.") {
		t.Errorf("unexpected speech %q", out.Response.OutputSpeech.SSML)
	}
}

func TestSkillHandler_PermissionCard(t *testing.T) {
	profiles := mocks.NewMockProfileClient()
	profiles.MobileNumberFunc = func(ctx context.Context, access domain.APIAccess) (*domain.MobileNumber, error) {
		return nil, domain.NewServiceError(403, "")
	}
	app := newTestApp(t, "givenname", profiles)
	body := `{
		"version": "1.0",
		"context": {"System": {
			"person": {"personId": "amzn1.ask.person.abc"},
			"apiEndpoint": "https://api.fe.amazonalexa.com",
			"apiAccessToken": "tok"
		}},
		"request": {"type": "IntentRequest", "requestId": "r2", "locale": "ja-JP",
			"intent": {"name": "ProfileNumberIntent"}}
	}`

	status, out := postEnvelope(t, app, body)

	if status != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if out.Response.Card == nil || out.Response.Card.Type != domain.CardTypePermissionsConsent {
		t.Fatalf("expected consent card, got %+v", out.Response.Card)
	}
	want := []string{domain.PermissionMobileNumberRead, domain.PermissionGivenNameRead}
	if strings.Join(out.Response.Card.Permissions, ",") != strings.Join(want, ",") {
		t.Errorf("expected %v, got %v", want, out.Response.Card.Permissions)
	}
	if got := profiles.LastAccess(); got.Token != "tok" || got.Endpoint != "https://api.fe.amazonalexa.com" {
		t.Errorf("unexpected api access %+v", got)
	}
}

func TestSkillHandler_BadRequests(t *testing.T) {
	app := newTestApp(t, "fullname", mocks.NewMockProfileClient())

	for name, body := range map[string]string{
		"malformed json":      `{"request":`,
		"missing type":        `{"version":"1.0","request":{}}`,
		"intent without name": `{"request":{"type":"IntentRequest","intent":{}}}`,
	} {
		status, _ := postEnvelope(t, app, body)
		if status != fiber.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", name, status)
		}
	}
}
