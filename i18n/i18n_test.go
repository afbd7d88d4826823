package i18n

import (
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestDetectLanguage(t *testing.T) {
	tests := map[string]string{
		"en-US,en;q=0.9": "en",
		"EN-gb":          "en",
		"fr-FR,fr;q=0.8": "fr",
		"":               "fr",
		"ar-MA":          "fr",
	}
	for header, want := range tests {
		if got := DetectLanguage(header); got != want {
			t.Errorf("DetectLanguage(%q) = %q, want %q", header, got, want)
		}
	}
}

func TestTranslations(t *testing.T) {
	if T("en", "required") != "Required" {
		t.Fatalf("expected Required")
	}
	if T("fr", "required") != "Requis" {
		t.Fatalf("expected Requis")
	}
	if T("en-GB", "solde_initial") != "Opening balance" {
		t.Fatalf("expected region to be ignored")
	}
	if T("en", "__nope__") != "__nope__" {
		t.Fatalf("expected fallback to code")
	}
	if T("es", "required") != "Requis" {
		t.Fatalf("expected fr fallback for es lang")
	}
}

func TestFormatAmount(t *testing.T) {
	got := FormatAmount("fr", decimal.RequireFromString("1234.5"))
	if !strings.HasSuffix(got, " DH") || !strings.Contains(got, "50") {
		t.Errorf("FormatAmount = %q", got)
	}
	if got := FormatAmount("en", decimal.RequireFromString("-12.345")); !strings.HasPrefix(got, "-12.3") || !strings.HasSuffix(got, " DH") {
		t.Errorf("FormatAmount(en) = %q", got)
	}
}

func TestLangContext(t *testing.T) {
	if LangFrom(context.Background()) != "fr" {
		t.Fatal("default lang should be fr")
	}
	if LangFrom(WithLang(context.Background(), "en")) != "en" {
		t.Fatal("expected en from context")
	}
}

func TestStartLabel(t *testing.T) {
	if got := StartLabel("en", "Solde au début de période"); got != "Balance at period start" {
		t.Errorf("StartLabel(en) = %q", got)
	}
	if got := StartLabel("fr", "Solde initial"); got != "Solde initial" {
		t.Errorf("StartLabel(fr) = %q", got)
	}
	if got := StartLabel("en", "Autre"); got != "Autre" {
		t.Errorf("unknown label = %q", got)
	}
}
