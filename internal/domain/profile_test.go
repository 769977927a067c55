package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"fullname", ModeFullName, false},
		{" GivenName ", ModeGivenName, false},
		{"nickname", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := ParseMode(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidMode) {
				t.Errorf("ParseMode(%q): expected ErrInvalidMode, got %v", tt.in, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseMode(%q): unexpected error %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseMode(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNewSkillSettings_PermissionsMatchMode(t *testing.T) {
	full, err := NewSkillSettings("fullname")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	given, err := NewSkillSettings("givenname")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	assertPermissions(t, full.Permissions(), PermissionMobileNumberRead, PermissionNameRead)
	assertPermissions(t, given.Permissions(), PermissionMobileNumberRead, PermissionGivenNameRead)
}

func TestSkillSettings_PermissionsIsACopy(t *testing.T) {
	settings, _ := NewSkillSettings("fullname")

	perms := settings.Permissions()
	perms[0] = "tampered"

	if settings.Permissions()[0] != PermissionMobileNumberRead {
		t.Error("mutating the returned slice must not change the settings")
	}
}

func TestNewSkillSettings_InvalidMode(t *testing.T) {
	if _, err := NewSkillSettings("both"); !errors.Is(err, ErrInvalidMode) {
		t.Fatalf("expected ErrInvalidMode, got %v", err)
	}
}

func TestAsServiceError(t *testing.T) {
	wrapped := fmt.Errorf("profile: name lookup: %w", NewServiceError(403, "forbidden"))

	se, ok := AsServiceError(wrapped)
	if !ok {
		t.Fatal("expected wrapped ServiceError to be detected")
	}
	if !se.PermissionDenied() {
		t.Error("expected 403 to be a permission denial")
	}
	if se.Name != ServiceErrorName {
		t.Errorf("expected name %q, got %q", ServiceErrorName, se.Name)
	}

	if _, ok := AsServiceError(errors.New("dial tcp: timeout")); ok {
		t.Error("plain errors must not be treated as ServiceError")
	}
}

func TestMobileNumber_String(t *testing.T) {
	n := MobileNumber{CountryCode: "+1", PhoneNumber: "5551234"}
	if n.String() != "+1 5551234" {
		t.Errorf("unexpected rendering %q", n.String())
	}

	var missing *MobileNumber
	if !missing.IsEmpty() {
		t.Error("nil number should be empty")
	}
}

func assertPermissions(t *testing.T, got []string, want ...string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("expected %d permissions, got %v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("permission %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}
