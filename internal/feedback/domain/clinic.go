package domain

import "strings"

// Clinic is a physical service location. The registry below is the explicit
// mapping table used both by the Places ingestion job (PlaceID) and by the
// chat endpoint's detect-clinic-from-question pass (Aliases).
type Clinic struct {
	ID      string
	Name    string
	PlaceID string
	Aliases []string
}

// Clinics is the fixed clinic registry.
var Clinics = []Clinic{
	{ID: "marylebone", Name: "Marylebone", PlaceID: "ChIJmarylebone", Aliases: []string{"marylebone", "w1"}},
	{ID: "city-of-london", Name: "City of London", PlaceID: "ChIJcityoflondon", Aliases: []string{"city of london", "bank", "moorgate"}},
	{ID: "canary-wharf", Name: "Canary Wharf", PlaceID: "ChIJcanarywharf", Aliases: []string{"canary wharf", "docklands"}},
	{ID: "kensington", Name: "Kensington", PlaceID: "ChIJkensington", Aliases: []string{"kensington", "high street ken"}},
}

// ClinicByID returns the registry entry for id, or nil.
func ClinicByID(id string) *Clinic {
	for i := range Clinics {
		if Clinics[i].ID == id {
			return &Clinics[i]
		}
	}
	return nil
}

// ClinicIDs returns the ids of every registered clinic.
func ClinicIDs() []string {
	ids := make([]string, len(Clinics))
	for i, c := range Clinics {
		ids[i] = c.ID
	}
	return ids
}

// MatchClinic scans lowercased free text for clinic name aliases and returns
// the id of the first clinic mentioned, or "" when none match.
func MatchClinic(text string) string {
	lower := strings.ToLower(text)
	for _, c := range Clinics {
		for _, alias := range c.Aliases {
			if strings.Contains(lower, alias) {
				return c.ID
			}
		}
	}
	return ""
}
