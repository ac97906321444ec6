package game

// Development identifies one of a region's three development tracks.
type Development string

const (
	DevAgriculture Development = "agriculture"
	DevCommerce    Development = "commerce"
	DevSecurity    Development = "security"
)

// Developments lists every development track in AI choice order.
var Developments = []Development{DevAgriculture, DevCommerce, DevSecurity}

// Valid returns true if d names a known development track.
func (d Development) Valid() bool {
	switch d {
	case DevAgriculture, DevCommerce, DevSecurity:
		return true
	default:
		return false
	}
}

// Region represents a single province on the map.
type Region struct {
	Name        string `json:"name"`
	Owner       string `json:"owner"` // Player name or AI faction, empty if unowned
	Gold        int    `json:"gold"`
	Food        int    `json:"food"`
	Population  int    `json:"population"`
	Agriculture int    `json:"agriculture"`
	Commerce    int    `json:"commerce"`
	Security    int    `json:"security"`
	Army        int    `json:"army"`
}

// NewRegion creates an unowned region with the standard starting resources.
func NewRegion(name string, rules Rules) *Region {
	return &Region{
		Name:       name,
		Gold:       rules.StartGold,
		Food:       rules.StartFood,
		Population: rules.StartPopulation,
	}
}

// Clone returns an independent copy of the region.
func (r *Region) Clone() *Region {
	c := *r
	return &c
}

// Level returns the current level of a development track.
func (r *Region) Level(dev Development) int {
	switch dev {
	case DevAgriculture:
		return r.Agriculture
	case DevCommerce:
		return r.Commerce
	case DevSecurity:
		return r.Security
	default:
		return 0
	}
}

// Invest spends the investment cost to raise a development track by one.
// Returns false and changes nothing if gold is short or dev is unknown.
func (r *Region) Invest(dev Development, rules Rules) bool {
	if !dev.Valid() || r.Gold < rules.InvestCost {
		return false
	}
	r.Gold -= rules.InvestCost
	switch dev {
	case DevAgriculture:
		r.Agriculture++
	case DevCommerce:
		r.Commerce++
	case DevSecurity:
		r.Security++
	}
	return true
}

// InvestAgriculture raises agriculture by one level.
func (r *Region) InvestAgriculture(rules Rules) bool {
	return r.Invest(DevAgriculture, rules)
}

// InvestCommerce raises commerce by one level.
func (r *Region) InvestCommerce(rules Rules) bool {
	return r.Invest(DevCommerce, rules)
}

// InvestSecurity raises security by one level.
func (r *Region) InvestSecurity(rules Rules) bool {
	return r.Invest(DevSecurity, rules)
}

// RecruitCost returns the food and population needed to raise amount soldiers.
func RecruitCost(amount int, rules Rules) (food, population int) {
	return amount * rules.FoodPerSoldier, amount * rules.PopulationPerSoldier
}

// Recruit converts food and population into soldiers.
// Returns false and changes nothing if amount is not positive or either resource is short.
func (r *Region) Recruit(amount int, rules Rules) bool {
	if amount <= 0 {
		return false
	}
	food, pop := RecruitCost(amount, rules)
	if r.Food < food || r.Population < pop {
		return false
	}
	r.Food -= food
	r.Population -= pop
	r.Army += amount
	return true
}

// AdvanceTurn applies one turn of growth and army upkeep.
// Flat growth is applied before the percentage bonuses, which compound on it.
func (r *Region) AdvanceTurn(rules Rules) {
	r.Gold += rules.GoldGrowth
	r.Food += rules.FoodGrowth
	r.Population += rules.PopulationGrowth

	if r.Agriculture > 0 {
		r.Food += int(float64(r.Food) * rules.AgricultureRate * float64(r.Agriculture))
	}
	if r.Commerce > 0 {
		r.Gold += int(float64(r.Gold) * rules.CommerceRate * float64(r.Commerce))
	}
	if r.Security > 0 {
		r.Population += int(float64(r.Population) * rules.SecurityRate * float64(r.Security))
	}

	if r.Army > 0 {
		upkeep := r.Army / rules.UpkeepDivisor
		if r.Food >= upkeep {
			r.Food -= upkeep
		} else {
			// Unpaid upkeep empties the granary but never disbands soldiers
			r.Food = 0
		}
	}
}
