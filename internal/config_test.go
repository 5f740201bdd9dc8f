package internal

import (
	"strings"
	"testing"

	"github.com/starford/tiwaz/internal/models"
)

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := NewDefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
	if got := cfg.Docs.Categories(); len(got) != len(models.Categories()) {
		t.Errorf("default modules = %v", got)
	}
}

func TestDocsConfig_UnknownModule(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Docs.Modules = []string{"api", "marketing"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("unknown module should fail validation")
	}
}

func TestDocsConfig_ProjectCodeFormat(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Docs.ProjectCode = "PR J"
	if err := cfg.Validate(); err == nil {
		t.Fatal("project code with a space should fail validation")
	}
}

func TestDocsConfig_EmptyModules(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Docs.Modules = nil
	if err := cfg.Validate(); err == nil {
		t.Fatal("empty module list should fail validation")
	}
}

func TestAuthConfig_DisabledMode(t *testing.T) {
	cfg := AuthConfig{Mode: "disabled", Token: ""}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("disabled mode should pass: %v", err)
	}
	if cfg.AuthEnabled() {
		t.Error("disabled mode should not be enabled")
	}
}

func TestAuthConfig_EmptyModeDefaultsDisabled(t *testing.T) {
	cfg := AuthConfig{}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("empty mode should default to disabled: %v", err)
	}
	if cfg.Mode != AuthModeDisabled {
		t.Errorf("mode = %q, want %q", cfg.Mode, AuthModeDisabled)
	}
}

func TestAuthConfig_TokenModeEmptyToken(t *testing.T) {
	cfg := AuthConfig{Mode: "token"}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("token mode with empty token should fail")
	}
	if !strings.Contains(err.Error(), "token is empty") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestAuthConfig_InvalidMode(t *testing.T) {
	cfg := AuthConfig{Mode: "magic", Token: "x"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("invalid mode should fail validation")
	}
}
