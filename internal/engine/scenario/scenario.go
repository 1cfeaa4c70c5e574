package scenario

// MatchAttributes é o recorte dos atributos de uma partida/aposta usado na
// detecção de cenários.
type MatchAttributes struct {
	DecimalOdds float64  // odd do lado escolhido
	Spread      float64  // magnitude da linha, em pontos
	Live        bool
	Tags        []string // situacionais: "back_to_back", "rivalry", "trailing", ...
}

// Detection é um cenário do catálogo que casou com a partida.
// Confidence é binária por critério: fração dos critérios especificados que
// foram satisfeitos (1.0 num match completo). MatchFactors lista quais
// dimensões dispararam.
type Detection struct {
	Scenario     BettingScenario
	Confidence   float64
	MatchFactors []string
}

// DetectScenarios casa os atributos da partida contra cada entrada do
// catálogo. Critério ausente é "não importa"; um cenário casa quando todos os
// critérios especificados são satisfeitos. Vários cenários podem casar ao
// mesmo tempo. Não há mutação do catálogo; é puro lookup.
func DetectScenarios(attrs MatchAttributes) []Detection {
	var out []Detection
	for _, sc := range catalog {
		if d, ok := match(sc, attrs); ok {
			out = append(out, d)
		}
	}
	return out
}

func match(sc BettingScenario, attrs MatchAttributes) (Detection, bool) {
	cr := sc.Criteria
	specified := 0
	satisfied := 0
	var factors []string

	check := func(ok bool, factor string) bool {
		specified++
		if !ok {
			return false
		}
		satisfied++
		factors = append(factors, factor)
		return true
	}

	if cr.MinOdds != nil && !check(attrs.DecimalOdds >= *cr.MinOdds, "odds_above_min") {
		return Detection{}, false
	}
	if cr.MaxOdds != nil && !check(attrs.DecimalOdds <= *cr.MaxOdds, "odds_below_max") {
		return Detection{}, false
	}
	if cr.MinSpread != nil && !check(attrs.Spread >= *cr.MinSpread, "spread_above_min") {
		return Detection{}, false
	}
	if cr.MaxSpread != nil && !check(attrs.Spread <= *cr.MaxSpread, "spread_below_max") {
		return Detection{}, false
	}
	if cr.Live != nil && !check(attrs.Live == *cr.Live, "live_state") {
		return Detection{}, false
	}
	for _, tag := range cr.Tags {
		if !check(hasTag(attrs.Tags, tag), "tag:"+tag) {
			return Detection{}, false
		}
	}

	if specified == 0 {
		// Cenário sem critério algum não casa com nada: entrada de catálogo
		// malformada, ignorada.
		return Detection{}, false
	}

	return Detection{
		Scenario:     sc,
		Confidence:   float64(satisfied) / float64(specified),
		MatchFactors: factors,
	}, true
}

func hasTag(tags []string, want string) bool {
	for _, t := range tags {
		if t == want {
			return true
		}
	}
	return false
}
