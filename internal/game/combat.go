package game

// ResolveBattle computes the survivors of one exchange between two armies.
//
// The attacker strikes first. Defender losses are the fraction attackPower/defenderHP
// of the defending soldiers, truncated. The defender strikes back only if some of its
// soldiers survive, using the same method against the attacker's pre-battle HP.
func ResolveBattle(attackers, defenders int, rules Rules) (attackerSurvivors, defenderSurvivors int) {
	if attackers <= 0 {
		return 0, defenders
	}
	if defenders <= 0 {
		return attackers, 0
	}

	attackPower := attackers * rules.AttackPerSoldier
	attackerHP := attackers * rules.HPPerSoldier
	defendPower := defenders * rules.AttackPerSoldier
	defenderHP := defenders * rules.HPPerSoldier

	defenderSurvivors = defenders - casualties(defenders, attackPower, defenderHP)
	if defenderSurvivors < 0 {
		defenderSurvivors = 0
	}

	attackerSurvivors = attackers
	if defenderSurvivors > 0 {
		attackerSurvivors = attackers - casualties(attackers, defendPower, attackerHP)
		if attackerSurvivors < 0 {
			attackerSurvivors = 0
		}
	}

	return attackerSurvivors, defenderSurvivors
}

// casualties returns how many of count soldiers fall to power against hp.
func casualties(count, power, hp int) int {
	ratio := float64(power) / float64(hp)
	return int(float64(count) * ratio)
}
