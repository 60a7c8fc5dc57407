package prefs

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"jobtracker/internal/model"
)

// stored mirrors the persisted JSON shape loosely so older or hand-edited
// values still load: preferredMode may be a list or a comma-separated string
// and minMatchScore may be missing.
type stored struct {
	RoleKeywords       string          `json:"roleKeywords"`
	PreferredLocations string          `json:"preferredLocations"`
	PreferredMode      json.RawMessage `json:"preferredMode"`
	ExperienceLevel    string          `json:"experienceLevel"`
	Skills             string          `json:"skills"`
	MinMatchScore      *int            `json:"minMatchScore"`
}

// Decode parses persisted preferences and normalizes them.
func Decode(raw string) (*model.Preferences, error) {
	var st stored
	if err := json.Unmarshal([]byte(raw), &st); err != nil {
		return nil, fmt.Errorf("decode preferences: %w", err)
	}

	modes, err := decodeModes(st.PreferredMode)
	if err != nil {
		return nil, err
	}

	p := model.Preferences{
		RoleKeywords:       st.RoleKeywords,
		PreferredLocations: st.PreferredLocations,
		PreferredMode:      modes,
		ExperienceLevel:    st.ExperienceLevel,
		Skills:             st.Skills,
		MinMatchScore:      model.DefaultMinMatchScore,
	}
	if st.MinMatchScore != nil {
		p.MinMatchScore = *st.MinMatchScore
	}
	p = Normalize(p)
	return &p, nil
}

func decodeModes(raw json.RawMessage) ([]string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return list, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("decode preferredMode: %w", err)
	}
	return strings.Split(s, ","), nil
}

// Normalize trims text fields, clamps MinMatchScore to [0, 100] and maps mode
// entries onto the mode vocabulary, dropping unknown and repeated ones.
func Normalize(p model.Preferences) model.Preferences {
	p.RoleKeywords = strings.TrimSpace(p.RoleKeywords)
	p.PreferredLocations = strings.TrimSpace(p.PreferredLocations)
	p.ExperienceLevel = strings.TrimSpace(p.ExperienceLevel)
	p.Skills = strings.TrimSpace(p.Skills)
	p.MinMatchScore = max(0, min(100, p.MinMatchScore))

	var modes []string
	for _, m := range p.PreferredMode {
		canon, ok := CanonicalMode(m)
		if !ok || slices.Contains(modes, canon) {
			continue
		}
		modes = append(modes, canon)
	}
	p.PreferredMode = modes
	return p
}

// CanonicalMode returns the vocabulary spelling of a work mode.
func CanonicalMode(m string) (string, bool) {
	m = strings.TrimSpace(m)
	for _, v := range model.Modes {
		if strings.EqualFold(v, m) {
			return v, true
		}
	}
	return "", false
}
