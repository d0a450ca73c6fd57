package derive

import "btcpulse/internal/domain"

const (
	BlockReward  = 3.125
	BlocksPerDay = 144

	secondsPerDay = 86400
	joulesPerKWh  = 3_600_000
	thPerEH       = 1_000_000
	kwhPerTWh     = 1e9

	// Grid carbon intensity used for the annualised CO2 estimate.
	co2TonnesPerMWh = 0.4
)

// MiningCost models the network-wide electricity cost of producing one BTC.
// hashrateEH is in EH/s.
func MiningCost(hashrateEH float64, s domain.MiningSettings) domain.MiningCalculation {
	hashrateTH := hashrateEH * thPerEH
	dailyEnergyJ := hashrateTH * s.MinerEfficiency * secondsPerDay
	dailyEnergyKWh := dailyEnergyJ / joulesPerKWh
	dailyCost := dailyEnergyKWh * s.ElectricityRate
	dailyBTC := float64(BlocksPerDay) * BlockReward

	electricityPerBTC := safeDiv(dailyCost, dailyBTC)
	return domain.MiningCalculation{
		ElectricityCostPerBTC: electricityPerBTC,
		TotalCostPerBTC:       electricityPerBTC * s.OverheadMultiplier,
		DailyEnergyKWh:        dailyEnergyKWh,
		DailyNetworkEnergyTWh: dailyEnergyKWh / kwhPerTWh,
		DailyElectricityCost:  dailyCost,
		DailyBTCMined:         dailyBTC,
		AnnualizedCO2Tonnes:   dailyEnergyKWh / 1000 * co2TonnesPerMWh * 365,
	}
}

// ProfitMargin is the percentage margin of selling at price against cost.
func ProfitMargin(price, cost float64) float64 {
	return safeDiv(price-cost, cost) * 100
}
