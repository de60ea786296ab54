package fhir

import (
	"encoding/json"
	"testing"
)

func TestFormatReference(t *testing.T) {
	if got := FormatReference("Organization", "abc"); got != "Organization/abc" {
		t.Errorf("expected Organization/abc, got %s", got)
	}
}

func TestExtension_ValueReferenceJSON(t *testing.T) {
	ext := Extension{
		URL:            FacilityExtensionURL,
		ValueReference: &Reference{Reference: "Organization/1", Display: "General Hospital"},
	}

	data, err := json.Marshal(ext)
	if err != nil {
		t.Fatalf("failed to marshal: %v", err)
	}

	var parsed map[string]interface{}
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}
	if parsed["url"] != FacilityExtensionURL {
		t.Errorf("expected url %s, got %v", FacilityExtensionURL, parsed["url"])
	}
	ref, ok := parsed["valueReference"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected valueReference object, got %T", parsed["valueReference"])
	}
	if ref["display"] != "General Hospital" {
		t.Errorf("expected display General Hospital, got %v", ref["display"])
	}
	if _, present := parsed["valueString"]; present {
		t.Error("expected valueString to be omitted when empty")
	}
}

func TestNotFoundOutcome(t *testing.T) {
	oo := NotFoundOutcome("Practitioner", "123")
	if oo.ResourceType != "OperationOutcome" {
		t.Errorf("expected OperationOutcome, got %s", oo.ResourceType)
	}
	if len(oo.Issue) != 1 {
		t.Fatalf("expected 1 issue, got %d", len(oo.Issue))
	}
	if oo.Issue[0].Code != "not-found" {
		t.Errorf("expected not-found, got %s", oo.Issue[0].Code)
	}
	if oo.Issue[0].Diagnostics != "Practitioner/123 not found" {
		t.Errorf("unexpected diagnostics: %s", oo.Issue[0].Diagnostics)
	}
}

func TestErrorOutcome(t *testing.T) {
	oo := ErrorOutcome("boom")
	if oo.Issue[0].Severity != "error" || oo.Issue[0].Code != "processing" {
		t.Errorf("unexpected issue: %+v", oo.Issue[0])
	}
}
