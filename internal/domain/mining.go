package domain

// MiningSettings are the user-adjustable inputs of the mining cost model.
type MiningSettings struct {
	ElectricityRate    float64 `json:"electricity_rate" yaml:"electricity_rate" validate:"gte=0,lte=10"`
	MinerEfficiency    float64 `json:"miner_efficiency" yaml:"miner_efficiency" validate:"gt=0,lte=1000"`
	OverheadMultiplier float64 `json:"overhead_multiplier" yaml:"overhead_multiplier" validate:"gte=1,lte=10"`
}

// MiningCalculation is derived from network hashrate and MiningSettings.
type MiningCalculation struct {
	ElectricityCostPerBTC float64 `json:"electricity_cost_per_btc"`
	TotalCostPerBTC       float64 `json:"total_cost_per_btc"`
	DailyEnergyKWh        float64 `json:"daily_energy_kwh"`
	DailyNetworkEnergyTWh float64 `json:"daily_network_energy_twh"`
	DailyElectricityCost  float64 `json:"daily_electricity_cost"`
	DailyBTCMined         float64 `json:"daily_btc_mined"`
	AnnualizedCO2Tonnes   float64 `json:"annualized_co2_tonnes"`
}
