// cliparse/cliparse_test.go
package cliparse

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestParseFlags_EnvVars(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("DATABASE_URL", "postgres://test")
	t.Setenv("DATABASE_TYPE", "postgres")
	t.Setenv("ADMIN_KEY_SALT", "test-salt")
	t.Setenv("SHARE_CODE_SALT", "test-code")

	cfg, err := ParseFlags([]string{})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Port)
	}
	if cfg.DatabaseType != "postgres" {
		t.Errorf("expected postgres, got %s", cfg.DatabaseType)
	}
	if cfg.ShareCodeSalt != "test-code" {
		t.Errorf("expected share code salt from env, got %q", cfg.ShareCodeSalt)
	}
}

func TestParseFlags_CLIOverridesEnv(t *testing.T) {
	t.Setenv("PORT", "9000")

	cfg, err := ParseFlags([]string{"-p", "8080", "-d", "file:test.db", "-admin-salt", "s1", "-code-salt", "s2"})
	if err != nil {
		t.Fatal(err)
	}

	// CLI should override env
	if cfg.Port != 8080 {
		t.Errorf("CLI should override env: expected 8080, got %d", cfg.Port)
	}
	if cfg.DatabaseType != "sqlite" {
		t.Errorf("expected sqlite default, got %s", cfg.DatabaseType)
	}
}

func TestParseFlags_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DATABASE_TYPE", "")

	cfg, err := ParseFlags([]string{"-admin-salt", "a", "-code-salt", "b"})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Port != 3318 {
		t.Errorf("expected default port 3318, got %d", cfg.Port)
	}
	if cfg.DatabaseURL != "file:weekpick.db" {
		t.Errorf("expected default sqlite file, got %s", cfg.DatabaseURL)
	}
}

func TestParseFlags_Errors(t *testing.T) {
	t.Setenv("ADMIN_KEY_SALT", "")
	t.Setenv("SHARE_CODE_SALT", "")
	t.Setenv("DATABASE_URL", "")

	tests := []struct {
		name string
		args []string
	}{
		{"missing admin salt", []string{"-code-salt", "b"}},
		{"missing code salt", []string{"-admin-salt", "a"}},
		{"postgres without url", []string{"-t", "postgres", "-admin-salt", "a", "-code-salt", "b"}},
		{"unknown database type", []string{"-t", "mysql", "-admin-salt", "a", "-code-salt", "b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseFlags(tt.args); err == nil {
				t.Error("expected error")
			}
		})
	}

	t.Setenv("PORT", "not-a-port")
	if _, err := ParseFlags([]string{"-admin-salt", "a", "-code-salt", "b"}); err == nil {
		t.Error("expected error for invalid PORT")
	}
}

func TestParseClientFlags(t *testing.T) {
	t.Setenv("WEEKPICK_SERVER", "")
	t.Setenv("WEEKPICK_CODE", "envcode")
	t.Setenv("WEEKPICK_NAME", "")

	cfg, rest, err := ParseClientFlags([]string{"-name", "Ana", "-poll", "2s", "-year", "2027", "mark", "5", "available"})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.ServerURL != "http://localhost:3318" {
		t.Errorf("unexpected server %s", cfg.ServerURL)
	}
	if cfg.TripCode != "envcode" {
		t.Errorf("expected code from env, got %s", cfg.TripCode)
	}
	if cfg.Name != "Ana" || cfg.Year != 2027 {
		t.Errorf("unexpected identity %s/%d", cfg.Name, cfg.Year)
	}
	if cfg.PollBase != 2*time.Second || cfg.PollMax != 60*time.Second {
		t.Errorf("unexpected poll config %v/%v", cfg.PollBase, cfg.PollMax)
	}
	if len(rest) != 3 || rest[0] != "mark" {
		t.Errorf("unexpected remaining args %v", rest)
	}

	if _, _, err := ParseClientFlags([]string{"-poll", "2m", "-poll-max", "1m"}); err == nil {
		t.Error("expected error when poll exceeds poll-max")
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("WEEKPICK_TEST_VALUE=from-file\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("WEEKPICK_TEST_VALUE", "")
	os.Unsetenv("WEEKPICK_TEST_VALUE")

	if err := LoadDotEnv(path, filepath.Join(dir, "missing.env")); err != nil {
		t.Fatal(err)
	}
	if got := os.Getenv("WEEKPICK_TEST_VALUE"); got != "from-file" {
		t.Errorf("expected value from .env, got %q", got)
	}
}
