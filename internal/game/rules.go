package game

import "fmt"

// Rules holds every tunable constant of the simulation.
type Rules struct {
	// Investment
	InvestCost int `json:"investCost" mapstructure:"invest_cost"`

	// Recruitment
	FoodPerSoldier       int `json:"foodPerSoldier" mapstructure:"food_per_soldier"`
	PopulationPerSoldier int `json:"populationPerSoldier" mapstructure:"population_per_soldier"`
	ShellRecruitAmount   int `json:"shellRecruitAmount" mapstructure:"shell_recruit_amount"`

	// End-of-turn growth
	GoldGrowth       int     `json:"goldGrowth" mapstructure:"gold_growth"`
	FoodGrowth       int     `json:"foodGrowth" mapstructure:"food_growth"`
	PopulationGrowth int     `json:"populationGrowth" mapstructure:"population_growth"`
	AgricultureRate  float64 `json:"agricultureRate" mapstructure:"agriculture_rate"`
	CommerceRate     float64 `json:"commerceRate" mapstructure:"commerce_rate"`
	SecurityRate     float64 `json:"securityRate" mapstructure:"security_rate"`
	UpkeepDivisor    int     `json:"upkeepDivisor" mapstructure:"upkeep_divisor"` // soldiers per food of upkeep

	// Combat
	AttackPerSoldier int     `json:"attackPerSoldier" mapstructure:"attack_per_soldier"`
	HPPerSoldier     int     `json:"hpPerSoldier" mapstructure:"hp_per_soldier"`
	PlunderRatio     float64 `json:"plunderRatio" mapstructure:"plunder_ratio"`
	SecurityPlunder  float64 `json:"securityPlunder" mapstructure:"security_plunder"` // fraction of security kept

	// AI policy
	AIInvestGold        int `json:"aiInvestGold" mapstructure:"ai_invest_gold"`
	AIRecruitFood       int `json:"aiRecruitFood" mapstructure:"ai_recruit_food"`
	AIRecruitPopulation int `json:"aiRecruitPopulation" mapstructure:"ai_recruit_population"`
	AIRecruitMin        int `json:"aiRecruitMin" mapstructure:"ai_recruit_min"`
	AIRecruitMax        int `json:"aiRecruitMax" mapstructure:"ai_recruit_max"`

	// Starting resources
	StartGold             int `json:"startGold" mapstructure:"start_gold"`
	StartFood             int `json:"startFood" mapstructure:"start_food"`
	StartPopulation       int `json:"startPopulation" mapstructure:"start_population"`
	PlayerStartGold       int `json:"playerStartGold" mapstructure:"player_start_gold"`
	PlayerStartFood       int `json:"playerStartFood" mapstructure:"player_start_food"`
	PlayerStartPopulation int `json:"playerStartPopulation" mapstructure:"player_start_population"`
}

// DefaultRules returns the standard rule set.
func DefaultRules() Rules {
	return Rules{
		InvestCost: 100,

		FoodPerSoldier:       5,
		PopulationPerSoldier: 1,
		ShellRecruitAmount:   10,

		GoldGrowth:       100,
		FoodGrowth:       300,
		PopulationGrowth: 100,
		AgricultureRate:  0.003,
		CommerceRate:     0.002,
		SecurityRate:     0.01,
		UpkeepDivisor:    10,

		AttackPerSoldier: 20,
		HPPerSoldier:     30,
		PlunderRatio:     0.5,
		SecurityPlunder:  0.5,

		AIInvestGold:        2000,
		AIRecruitFood:       2000,
		AIRecruitPopulation: 1100,
		AIRecruitMin:        5,
		AIRecruitMax:        20,

		StartGold:             1000,
		StartFood:             3000,
		StartPopulation:       1000,
		PlayerStartGold:       2000,
		PlayerStartFood:       5000,
		PlayerStartPopulation: 1500,
	}
}

// Validate checks that the rules cannot drive a region negative or divide by zero.
func (r Rules) Validate() error {
	ints := map[string]int{
		"invest_cost":             r.InvestCost,
		"food_per_soldier":        r.FoodPerSoldier,
		"population_per_soldier":  r.PopulationPerSoldier,
		"gold_growth":             r.GoldGrowth,
		"food_growth":             r.FoodGrowth,
		"population_growth":       r.PopulationGrowth,
		"attack_per_soldier":      r.AttackPerSoldier,
		"ai_invest_gold":          r.AIInvestGold,
		"ai_recruit_food":         r.AIRecruitFood,
		"ai_recruit_population":   r.AIRecruitPopulation,
		"start_gold":              r.StartGold,
		"start_food":              r.StartFood,
		"start_population":        r.StartPopulation,
		"player_start_gold":       r.PlayerStartGold,
		"player_start_food":       r.PlayerStartFood,
		"player_start_population": r.PlayerStartPopulation,
	}
	for name, v := range ints {
		if v < 0 {
			return fmt.Errorf("rule %s must not be negative, got %d", name, v)
		}
	}

	rates := map[string]float64{
		"agriculture_rate": r.AgricultureRate,
		"commerce_rate":    r.CommerceRate,
		"security_rate":    r.SecurityRate,
	}
	for name, v := range rates {
		if v < 0 {
			return fmt.Errorf("rule %s must not be negative, got %g", name, v)
		}
	}
	if r.PlunderRatio < 0 || r.PlunderRatio > 1 {
		return fmt.Errorf("rule plunder_ratio must be within [0,1], got %g", r.PlunderRatio)
	}
	if r.SecurityPlunder < 0 || r.SecurityPlunder > 1 {
		return fmt.Errorf("rule security_plunder must be within [0,1], got %g", r.SecurityPlunder)
	}

	if r.UpkeepDivisor <= 0 {
		return fmt.Errorf("rule upkeep_divisor must be positive, got %d", r.UpkeepDivisor)
	}
	if r.HPPerSoldier <= 0 {
		return fmt.Errorf("rule hp_per_soldier must be positive, got %d", r.HPPerSoldier)
	}
	if r.ShellRecruitAmount <= 0 {
		return fmt.Errorf("rule shell_recruit_amount must be positive, got %d", r.ShellRecruitAmount)
	}
	if r.AIRecruitMin <= 0 || r.AIRecruitMax < r.AIRecruitMin {
		return fmt.Errorf("invalid AI recruit range [%d,%d]", r.AIRecruitMin, r.AIRecruitMax)
	}
	return nil
}
