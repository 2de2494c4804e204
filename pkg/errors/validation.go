package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// identifierRegex matches plain ASCII JavaScript identifiers.
var identifierRegex = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

// reservedWords are JavaScript keywords and literals that cannot name a
// function or a global binding in strict-mode module code.
var reservedWords = map[string]bool{
	"await": true, "break": true, "case": true, "catch": true, "class": true,
	"const": true, "continue": true, "debugger": true, "default": true,
	"delete": true, "do": true, "else": true, "enum": true, "export": true,
	"extends": true, "false": true, "finally": true, "for": true,
	"function": true, "if": true, "implements": true, "import": true,
	"in": true, "instanceof": true, "interface": true, "let": true,
	"new": true, "null": true, "package": true, "private": true,
	"protected": true, "public": true, "return": true, "static": true,
	"super": true, "switch": true, "this": true, "throw": true, "true": true,
	"try": true, "typeof": true, "var": true, "void": true, "while": true,
	"with": true, "yield": true,
	"arguments": true, "eval": true,
}

// ValidateIdentifier checks that name can be emitted verbatim as a JavaScript
// binding name. The check is conservative: only ASCII identifiers that are not
// reserved words are accepted.
func ValidateIdentifier(name string) error {
	if name == "" {
		return New(ErrCodeInvalidName, "name cannot be empty")
	}
	if len(name) > 256 {
		return New(ErrCodeInvalidName, "name too long (max 256 characters)")
	}
	if !identifierRegex.MatchString(name) {
		return New(ErrCodeInvalidName, "invalid JavaScript identifier: %q", name)
	}
	if reservedWords[name] {
		return New(ErrCodeInvalidName, "reserved word cannot be used as a name: %q", name)
	}
	return nil
}

// generatedBindings are module-level names every generated index declares.
var generatedBindings = map[string]bool{"View": true, "transforms": true}

// specConstPrefix is the prefix of the constant each spec is embedded as.
const specConstPrefix = "spec_"

// ValidateSpecName validates the name under which a dataflow spec is added to
// a bundle. The name becomes an exported factory function, so it must be a
// valid identifier that no other binding in the generated index uses.
// Collisions with imported transforms depend on the module map and are
// checked when the index is generated.
func ValidateSpecName(name string) error {
	if err := ValidateIdentifier(name); err != nil {
		return err
	}
	if generatedBindings[name] {
		return New(ErrCodeInvalidName, "spec name %q collides with a generated binding", name).WithSubject(name)
	}
	if strings.HasPrefix(name, specConstPrefix) {
		return New(ErrCodeInvalidName, "spec name %q uses the reserved %q prefix", name, specConstPrefix).WithSubject(name)
	}
	return nil
}

// ValidatePath validates a spec file path listed in a bundle manifest.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidManifest, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidManifest, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidManifest, "path contains invalid characters")
		}
	}

	if strings.TrimSpace(path) != path {
		return New(ErrCodeInvalidManifest, "path has leading or trailing whitespace: %q", path)
	}

	return nil
}
