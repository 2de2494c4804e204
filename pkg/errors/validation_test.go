package errors

import (
	"testing"
)

func TestValidateIdentifier(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "bar", false},
		{"camel case", "vegaBundle", false},
		{"underscore", "_private", false},
		{"dollar", "$spec", false},
		{"digits", "spec0", false},

		{"empty", "", true},
		{"too long", "a" + string(make([]byte, 300)), true},
		{"leading digit", "0spec", true},
		{"dash", "my-spec", true},
		{"dot", "a.b", true},
		{"space", "my spec", true},
		{"unicode", "café", true},
		{"keyword", "function", true},
		{"literal", "null", true},
		{"strict reserved", "let", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateIdentifier(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateIdentifier(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidName) {
				t.Errorf("ValidateIdentifier(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidName)
			}
		})
	}
}

func TestValidateSpecName(t *testing.T) {
	if err := ValidateSpecName("bar"); err != nil {
		t.Errorf("ValidateSpecName(bar) error = %v", err)
	}
	if err := ValidateSpecName("View"); err == nil {
		t.Error("ValidateSpecName(View) should fail")
	}
	if err := ValidateSpecName("class"); err == nil {
		t.Error("ValidateSpecName(class) should fail")
	}
	for _, name := range []string{"transforms", "spec_x", "spec_"} {
		err := ValidateSpecName(name)
		if !Is(err, ErrCodeInvalidName) {
			t.Errorf("ValidateSpecName(%q) error = %v, want INVALID_NAME", name, err)
		}
		if got := GetSubject(err); got != name {
			t.Errorf("ValidateSpecName(%q) subject = %q", name, got)
		}
	}
	if err := ValidateSpecName("specs"); err != nil {
		t.Errorf("ValidateSpecName(specs) error = %v", err)
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"relative", "specs/bar.vl.json", false},
		{"absolute", "/tmp/bar.vg.json", false},
		{"parent", "../specs/arc.vg.json", false},

		{"empty", "", true},
		{"too long", string(make([]byte, 600)), true},
		{"null byte", "foo\x00bar", true},
		{"newline", "foo\nbar", true},
		{"trailing space", "bar.json ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
