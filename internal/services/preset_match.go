package services

import (
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/xvierd/streak/internal/domain"
)

// presetSource adapts presets for fuzzy matching on "id name".
type presetSource []domain.Preset

func (s presetSource) String(i int) string {
	return s[i].ID + " " + s[i].Label()
}

func (s presetSource) Len() int {
	return len(s)
}

// MatchPresets returns the presets matching query, best match first.
// An exact ID match always wins; an empty query returns every preset.
func MatchPresets(query string, presets domain.PresetSet) []domain.Preset {
	all := presets.All()
	query = strings.TrimSpace(query)
	if query == "" {
		return all
	}
	if p, ok := presets.Get(query); ok {
		return []domain.Preset{p}
	}

	matches := fuzzy.FindFrom(query, presetSource(all))
	out := make([]domain.Preset, 0, len(matches))
	for _, m := range matches {
		out = append(out, all[m.Index])
	}
	return out
}
