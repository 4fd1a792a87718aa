package registry

import "testing"

func TestDefaultRegistryHasBuiltins(t *testing.T) {
	reg := Default()
	for _, prefix := range []string{"RV", "DC", "CH", "AN", "DG", "EX", "IM", "NT", "RF", "SN"} {
		if _, err := reg.ByPrefix(prefix); err != nil {
			t.Fatalf("expected built-in prefix %s registered: %v", prefix, err)
		}
	}
}

func TestReservedPrefixCannotBeOverridden(t *testing.T) {
	reg := New()
	reg.mustRegister(TypeDefinition{Prefix: "DC", Name: "decision", Category: Text}, true)
	err := reg.Register(TypeDefinition{Prefix: "DC", Name: "something-else", Category: Text})
	if err == nil {
		t.Fatal("expected error overriding reserved prefix")
	}
}

func TestCustomTypeRegisters(t *testing.T) {
	reg := New()
	def := TypeDefinition{Prefix: "QZ", Name: "quiz", Category: Text}
	if err := reg.Register(def); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := reg.ByPrefix("QZ")
	if err != nil {
		t.Fatalf("expected lookup to succeed: %v", err)
	}
	if got.Name != "quiz" {
		t.Fatalf("name mismatch: %v", got)
	}
}

func TestUnknownPrefixError(t *testing.T) {
	reg := New()
	if _, err := reg.ByPrefix("ZZ"); err == nil {
		t.Fatal("expected error for unregistered prefix")
	}
}

func TestValidateTypeFieldsRequired(t *testing.T) {
	def := TypeDefinition{
		Prefix: "DC",
		Name:   "decision",
		Fields: []TypeField{{Name: "rationale", Type: FieldString, Required: true}},
	}
	if err := ValidateTypeFields(def, map[string]any{}); err == nil {
		t.Fatal("expected error for missing required field")
	}
	if err := ValidateTypeFields(def, map[string]any{"rationale": "because"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateTypeFieldsEnum(t *testing.T) {
	def := TypeDefinition{
		Prefix: "RV",
		Name:   "review",
		Fields: []TypeField{{Name: "verdict", Type: FieldEnum, AllowedValues: []string{"approved", "blocked"}}},
	}
	if err := ValidateTypeFields(def, map[string]any{"verdict": "maybe"}); err == nil {
		t.Fatal("expected error for disallowed enum value")
	}
	if err := ValidateTypeFields(def, map[string]any{"verdict": "approved"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidFormatAndSubtype(t *testing.T) {
	def := TypeDefinition{
		Prefix:   "IM",
		Name:     "image",
		Formats:  []string{"png", "jpg", "webp"},
		Subtypes: []string{"screenshot", "asset"},
	}
	if !ValidFormat(def, "png") || ValidFormat(def, "gif") {
		t.Fatal("format validation mismatch")
	}
	if !ValidSubtype(def, "screenshot") || ValidSubtype(def, "bogus") {
		t.Fatal("subtype validation mismatch")
	}
	if !ValidSubtype(def, "") {
		t.Fatal("empty subtype should always be valid")
	}
}
