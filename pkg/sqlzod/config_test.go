package sqlzod

import (
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/hlop3z/sqlzod/pkg/z"
)

func TestCoerce_UnmarshalYAML(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Coerce
	}{
		{"true enables all", "coerce: true", CoerceAll()},
		{"false disables all", "coerce: false", Coerce{}},
		{"map", "coerce:\n  date: true\n  number: true", Coerce{Date: true, Number: true}},
		{"map is case-insensitive", "coerce:\n  BigInt: true", Coerce{BigInt: true}},
		{"absent", "other: 1", Coerce{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cfg Config
			if err := yaml.Unmarshal([]byte(tt.input), &cfg); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if cfg.Coerce != tt.want {
				t.Errorf("Coerce = %s, want %s", cfg.Coerce.List(), tt.want.List())
			}
		})
	}
}

func TestCoerce_UnmarshalYAMLErrors(t *testing.T) {
	inputs := []string{
		"coerce:\n  dates: true",
		"coerce: maybe",
		"coerce: [date]",
	}
	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			var cfg Config
			if err := yaml.Unmarshal([]byte(in), &cfg); err == nil {
				t.Errorf("expected an error for %q", in)
			}
		})
	}
}

func TestCoerce_MarshalYAML(t *testing.T) {
	tests := []struct {
		in   Coerce
		want string
	}{
		{CoerceAll(), "coerce: true\n"},
		{Coerce{}, "coerce: false\n"},
	}
	for _, tt := range tests {
		out, err := yaml.Marshal(Config{Coerce: tt.in})
		if err != nil {
			t.Fatal(err)
		}
		if string(out) != tt.want {
			t.Errorf("Marshal(%s) = %q, want %q", tt.in.List(), out, tt.want)
		}
	}

	out, err := yaml.Marshal(Config{Coerce: Coerce{Date: true}})
	if err != nil {
		t.Fatal(err)
	}
	var back Config
	if err := yaml.Unmarshal(out, &back); err != nil {
		t.Fatal(err)
	}
	if back.Coerce != (Coerce{Date: true}) {
		t.Errorf("round trip = %s, want date", back.Coerce.List())
	}
}

func TestParseCoerce(t *testing.T) {
	tests := []struct {
		in   string
		want Coerce
	}{
		{"", Coerce{}},
		{"none", Coerce{}},
		{"all", CoerceAll()},
		{"date", Coerce{Date: true}},
		{"date, number", Coerce{Date: true, Number: true}},
		{"string,boolean,bigint", Coerce{String: true, Boolean: true, BigInt: true}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseCoerce(tt.in)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("ParseCoerce(%q) = %s, want %s", tt.in, got.List(), tt.want.List())
			}
		})
	}

	_, err := ParseCoerce("date,nubmer")
	if ErrorCode(err) != ErrInvalidConfig {
		t.Errorf("code = %v, want %v", ErrorCode(err), ErrInvalidConfig)
	}
}

func TestCoerce_Applies(t *testing.T) {
	c := Coerce{Date: true}
	if !c.Applies(z.KindDate) {
		t.Error("date should apply")
	}
	for _, k := range []z.Kind{z.KindString, z.KindNumber, z.KindEnum, z.KindUnknown} {
		if c.Applies(k) {
			t.Errorf("%s should not apply", k)
		}
	}
	if got := (Coerce{Number: true, Date: true}).List(); got != "number,date" {
		t.Errorf("List = %q", got)
	}
}
