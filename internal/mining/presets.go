package mining

import (
	"math"
	"sort"

	"btcpulse/internal/domain"
)

const (
	PresetEfficient = "efficient"
	PresetAverage   = "average"
	PresetExpensive = "expensive"
	PresetCustom    = "custom"
)

// Presets are the named operator profiles the cost model ships with.
var Presets = map[string]domain.MiningSettings{
	PresetEfficient: {ElectricityRate: 0.03, MinerEfficiency: 17.5, OverheadMultiplier: 1.2},
	PresetAverage:   {ElectricityRate: 0.05, MinerEfficiency: 25, OverheadMultiplier: 1.4},
	PresetExpensive: {ElectricityRate: 0.08, MinerEfficiency: 30, OverheadMultiplier: 1.6},
}

// DefaultSettings is the average profile.
func DefaultSettings() domain.MiningSettings {
	return Presets[PresetAverage]
}

// PresetNames lists the presets in a stable order.
func PresetNames() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// PresetFor names the preset s matches, or "custom".
func PresetFor(s domain.MiningSettings) string {
	for _, name := range PresetNames() {
		if sameSettings(Presets[name], s) {
			return name
		}
	}
	return PresetCustom
}

func sameSettings(a, b domain.MiningSettings) bool {
	const eps = 1e-9
	return math.Abs(a.ElectricityRate-b.ElectricityRate) < eps &&
		math.Abs(a.MinerEfficiency-b.MinerEfficiency) < eps &&
		math.Abs(a.OverheadMultiplier-b.OverheadMultiplier) < eps
}
