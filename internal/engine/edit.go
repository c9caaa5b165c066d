package engine

import (
	"strings"

	"github.com/piwi3910/SiteTakeoff/internal/model"
)

// LockedFields returns the json names of the configuration fields the
// current tier derives automatically. Forms disable these fields. cfg is a
// DeckConfig, PavingConfig or WallConfig, or a pointer to one; other types
// have no locked fields.
func LockedFields(cfg any) []string {
	switch c := cfg.(type) {
	case model.DeckConfig:
		return deckAssembly.lockedFields(deckAssembly.tierFor(&c))
	case *model.DeckConfig:
		return deckAssembly.lockedFields(deckAssembly.tierFor(c))
	case model.PavingConfig:
		return pavingAssembly.lockedFields(pavingAssembly.tierFor(&c))
	case *model.PavingConfig:
		return pavingAssembly.lockedFields(pavingAssembly.tierFor(c))
	case model.WallConfig:
		return wallAssembly.lockedFields(wallAssembly.tierFor(&c))
	case *model.WallConfig:
		return wallAssembly.lockedFields(wallAssembly.tierFor(c))
	}
	return []string{}
}

// ApplyEdit writes a form value into the named field of cfg, which must be
// a pointer to a calculator configuration. Writes to fields locked by the
// tier are ignored. It reports whether the value was written.
func ApplyEdit(cfg any, field, value string) bool {
	name := strings.ToLower(strings.TrimSpace(field))
	for _, locked := range LockedFields(cfg) {
		if locked == name {
			return false
		}
	}
	return model.SetField(cfg, name, value)
}
