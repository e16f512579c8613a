package value

import (
	"testing"
	"time"
)

func TestExtractInt(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int32
		ok    bool
	}{
		{name: "plain number", input: "42", want: 42, ok: true},
		{name: "currency prefix", input: "$1200", want: 1200, ok: true},
		{name: "unit suffix", input: "35kg", want: 35, ok: true},
		{name: "first run wins", input: "abc123def456", want: 123, ok: true},
		{name: "no digits", input: "n/a", ok: false},
		{name: "empty", input: "", ok: false},
		{name: "overflow", input: "99999999999", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractInt(tt.input)
			if ok != tt.ok {
				t.Fatalf("ExtractInt(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			}
			if ok && got != tt.want {
				t.Errorf("ExtractInt(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestExtractFloat(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float32
		ok    bool
	}{
		{name: "plain number", input: "3.14", want: 3.14, ok: true},
		{name: "thousands separators", input: "1,234.56", want: 1234.56, ok: true},
		{name: "currency prefix", input: "$99.99", want: 99.99, ok: true},
		{name: "trailing decimal point", input: "12.", want: 12, ok: true},
		{name: "integer text", input: "7", want: 7, ok: true},
		{name: "no digits", input: "unknown", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractFloat(tt.input)
			if ok != tt.ok {
				t.Fatalf("ExtractFloat(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			}
			if ok && got != tt.want {
				t.Errorf("ExtractFloat(%q) = %g, want %g", tt.input, got, tt.want)
			}
		})
	}
}

func TestExtractDateLayoutPriority(t *testing.T) {
	// All six layouts of the same calendar day must agree.
	want := time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)
	inputs := []string{
		"2024-03-05",
		"2024.03.05",
		"20240305",
		"240305",
		"2024/03/05",
		"05/03/2024",
		"2024年03月05日",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			got, ok := ExtractDate(input)
			if !ok {
				t.Fatalf("ExtractDate(%q) did not match", input)
			}
			if !got.Equal(want) {
				t.Errorf("ExtractDate(%q) = %s, want %s",
					input, got.Format(DateLayout), want.Format(DateLayout))
			}
		})
	}
}

func TestExtractDateEmbedded(t *testing.T) {
	got, ok := ExtractDate("shipped 2023-12-31 late")
	if !ok {
		t.Fatal("ExtractDate did not match embedded date")
	}
	if got.Format(DateLayout) != "2023-12-31" {
		t.Errorf("got %s, want 2023-12-31", got.Format(DateLayout))
	}
}

func TestExtractDateNoMatch(t *testing.T) {
	for _, input := range []string{"", "not a date", "next tuesday"} {
		if _, ok := ExtractDate(input); ok {
			t.Errorf("ExtractDate(%q) matched, want no match", input)
		}
	}
}

func TestParseStrict(t *testing.T) {
	if _, ok := ParseStrictInt("12abc"); ok {
		t.Error("ParseStrictInt accepted trailing garbage")
	}
	if n, ok := ParseStrictInt(" -7 "); !ok || n != -7 {
		t.Errorf("ParseStrictInt(\" -7 \") = %d, %v", n, ok)
	}
	if f, ok := ParseStrictFloat("2.5"); !ok || f != 2.5 {
		t.Errorf("ParseStrictFloat(\"2.5\") = %g, %v", f, ok)
	}
	if b, ok := ParseStrictBool("TRUE"); !ok || !b {
		t.Errorf("ParseStrictBool(\"TRUE\") = %v, %v", b, ok)
	}
	if _, ok := ParseStrictBool("yes"); ok {
		t.Error("ParseStrictBool accepted \"yes\"")
	}
}
