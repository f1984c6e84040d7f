package i18n

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseAcceptLanguage(t *testing.T) {
	tests := []struct {
		header string
		want   Locale
	}{
		{"", LocaleEn},
		{"en", LocaleEn},
		{"en-US,en;q=0.9", LocaleEn},
		{"ar-EG,ar;q=0.9,en-US;q=0.8", LocaleAr},
		{"ar", LocaleAr},
		{"fr-FR,fr;q=0.9", LocaleEn}, // unsupported → fallback
		{"fr-FR,ar;q=0.5", LocaleAr},
	}

	for _, tt := range tests {
		got := ParseAcceptLanguage(tt.header)
		if got != tt.want {
			t.Errorf("ParseAcceptLanguage(%q) = %q, want %q", tt.header, got, tt.want)
		}
	}
}

func TestBundleTranslation(t *testing.T) {
	b := Default()

	if got := b.T(LocaleEn, "feed.load_failed"); got != "Failed to load feed" {
		t.Errorf("en feed.load_failed = %q", got)
	}

	if got := b.T(LocaleAr, "toast.title.error"); got != "خطأ" {
		t.Errorf("ar toast.title.error = %q", got)
	}

	// unknown key returns the key itself
	if got := b.T(LocaleEn, "unknown.key"); got != "unknown.key" {
		t.Errorf("unknown key = %q, want key itself", got)
	}

	// Format args
	if got := b.T(LocaleEn, "community.joined", "Queens Runners"); got != "Successfully joined Queens Runners!" {
		t.Errorf("community.joined with args = %q", got)
	}
}

func TestBundleFallback(t *testing.T) {
	b := NewBundle(LocaleEn)
	b.LoadMessages(LocaleEn, map[string]string{"only.en": "english"})
	b.LoadMessages(LocaleAr, map[string]string{})

	if got := b.T(LocaleAr, "only.en"); got != "english" {
		t.Errorf("fallback = %q, want english", got)
	}
}

func TestLoadMessagesDoesNotMutateDefaults(t *testing.T) {
	b := Default()
	b.LoadMessages(LocaleEn, map[string]string{"feed.load_failed": "override"})

	if got := b.T(LocaleEn, "feed.load_failed"); got != "override" {
		t.Errorf("override = %q", got)
	}
	if got := Default().T(LocaleEn, "feed.load_failed"); got != "Failed to load feed" {
		t.Errorf("defaults were mutated: %q", got)
	}
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "ar.json"), []byte(`{"greeting":"مرحبا"}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644); err != nil {
		t.Fatal(err)
	}

	b := NewBundle(LocaleEn)
	if err := b.LoadDir(dir); err != nil {
		t.Fatalf("LoadDir: %v", err)
	}
	if got := b.T(LocaleAr, "greeting"); got != "مرحبا" {
		t.Errorf("greeting = %q", got)
	}
	if len(b.SupportedLocales()) != 1 {
		t.Errorf("locales = %v", b.SupportedLocales())
	}
}

func TestBundleFor(t *testing.T) {
	tr := Default().For(LocaleAr)
	if got := tr("toast.title.error"); got != "خطأ" {
		t.Errorf("bound translator = %q", got)
	}
}
