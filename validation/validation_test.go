package validation

import "testing"

func TestValidators(t *testing.T) {
	v := make(Violations)
	Required("nom", "  ", v)
	PositiveFloat("montant", 0, v)
	OneOf("mode", "Bitcoin", []string{"Espèces", "Chèque"}, v)
	OneOf("type", "", []string{"Client"}, v)
	RequiredID("contact_id", nil, v)
	NonNegativeFloat("solde", -1, v)

	want := map[string]string{
		"nom":        "required",
		"montant":    "must_be_positive",
		"mode":       "invalid_choice",
		"contact_id": "required",
		"solde":      "must_not_be_negative",
	}
	if len(v) != len(want) {
		t.Fatalf("violations = %v", v)
	}
	for k, code := range want {
		if v[k] != code {
			t.Errorf("%s = %q, want %q", k, v[k], code)
		}
	}
}

func TestClock(t *testing.T) {
	tests := []struct {
		in string
		ok bool
	}{
		{"08:00", true},
		{"23:59", true},
		{"08:00:00", true},
		{"24:00", false},
		{"8:00", false},
		{"ab:cd", false},
		{"", false},
	}
	for _, tt := range tests {
		v := make(Violations)
		Clock("start_time", tt.in, v)
		if v.Empty() != tt.ok {
			t.Errorf("Clock(%q) violations=%v, want ok=%v", tt.in, v, tt.ok)
		}
	}
}
