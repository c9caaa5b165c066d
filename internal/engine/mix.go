package engine

import (
	"fmt"

	"github.com/piwi3910/SiteTakeoff/internal/model"
)

// DefaultBulking converts a wet mix volume into the loose dry volume of its
// constituents.
const DefaultBulking = 1.5

var (
	mortarMaterials   = []string{model.MaterialCement, model.MaterialSharpSand}
	buildingMaterials = []string{model.MaterialCement, model.MaterialBuildingSand}
	concreteMaterials = []string{model.MaterialCement, model.MaterialSharpSand, model.MaterialGravel}
)

// ResolveMix splits a wet target volume (m³) into dry constituent volumes.
// The dry volume is the wet volume times the bulking factor, shared out by
// part/sum(parts). materials names the constituents in ratio order; a ratio
// of any arity is accepted. An invalid ratio or a non-positive volume gives
// zero volumes.
func ResolveMix(label string, wetM3 float64, ratio model.MixRatio, materials []string, bulking float64) model.MixResult {
	if bulking <= 0 {
		bulking = DefaultBulking
	}
	if wetM3 < 0 {
		wetM3 = 0
	}
	res := model.MixResult{
		Label:       label,
		Ratio:       ratio,
		WetVolumeM3: wetM3,
		DryVolumeM3: wetM3 * bulking,
		Parts:       make([]model.MixPart, len(ratio)),
	}
	sum := ratio.Sum()
	for i, parts := range ratio {
		name := fmt.Sprintf("part %d", i+1)
		if i < len(materials) {
			name = materials[i]
		}
		part := model.MixPart{Material: name, Parts: parts}
		if sum > 0 {
			part.VolumeM3 = res.DryVolumeM3 * parts / sum
		}
		res.Parts[i] = part
	}
	if sum <= 0 {
		res.DryVolumeM3 = 0
	}
	return res
}
