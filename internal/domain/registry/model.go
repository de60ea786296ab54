package registry

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hospreg/hospreg/internal/platform/fhir"
)

// DNISystem is the identifier system used for practitioner DNIs in FHIR views.
const DNISystem = "urn:hospreg:dni"

// Facility is the hospital the registry is currently attaching doctors to.
// A Facility is never modified after it is set; replacing the current hospital
// creates a new Facility with a new ID.
type Facility struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

func (f Facility) String() string {
	return "Hospital " + f.Name
}

func (f Facility) ToFHIR() map[string]interface{} {
	return map[string]interface{}{
		"resourceType": "Organization",
		"id":           f.ID.String(),
		"active":       true,
		"name":         f.Name,
		"type": []fhir.CodeableConcept{
			{
				Coding: []fhir.Coding{{
					System:  "http://terminology.hl7.org/CodeSystem/organization-type",
					Code:    "prov",
					Display: "Healthcare Provider",
				}},
			},
		},
		"meta": fhir.Meta{LastUpdated: f.CreatedAt},
	}
}

// Practitioner is a doctor registered under a facility. Facility is a snapshot
// of the hospital that was current when the doctor was added.
type Practitioner struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Specialty string    `json:"specialty"`
	Facility  Facility  `json:"facility"`
	CreatedAt time.Time `json:"created_at"`
}

func (p Practitioner) String() string {
	return fmt.Sprintf("Dr. %s (DNI: %s), %s", p.Name, p.ID, p.Specialty)
}

func (p Practitioner) ToFHIR() map[string]interface{} {
	return map[string]interface{}{
		"resourceType": "Practitioner",
		"id":           p.ID,
		"active":       true,
		"meta":         fhir.Meta{LastUpdated: p.CreatedAt},
		"identifier": []fhir.Identifier{
			{Use: "official", System: DNISystem, Value: p.ID},
		},
		"name": []fhir.HumanName{
			{Use: "official", Text: p.Name},
		},
		"qualification": []map[string]interface{}{
			{"code": fhir.CodeableConcept{Text: p.Specialty}},
		},
		"extension": []fhir.Extension{
			{
				URL: fhir.FacilityExtensionURL,
				ValueReference: &fhir.Reference{
					Reference: fhir.FormatReference("Organization", p.Facility.ID.String()),
					Type:      "Organization",
					Display:   p.Facility.Name,
				},
			},
		},
	}
}

// Row is the flat four-column view of a practitioner shown by search results.
type Row struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Specialty    string    `json:"specialty"`
	FacilityName string    `json:"facility_name"`
	FacilityID   uuid.UUID `json:"facility_id"`
}

func (p Practitioner) Row() Row {
	return Row{
		ID:           p.ID,
		Name:         p.Name,
		Specialty:    p.Specialty,
		FacilityName: p.Facility.Name,
		FacilityID:   p.Facility.ID,
	}
}
