package arbitrage

import (
	"github.com/radieske/bet-consensus-poc/pkg/contracts/events"
)

// NeutralPercentage é o sentinela retornado quando não há cotações utilizáveis:
// soma 100% significa "sem oportunidade", não é um erro.
const NeutralPercentage = 100.0

// StakeSplit é a divisão percentual da stake total que iguala o payout em
// todas as saídas. Soma 100.
type StakeSplit struct {
	Home float64 `json:"home"`
	Away float64 `json:"away"`
	Draw float64 `json:"draw,omitempty"`
}

// Opportunity descreve uma checagem de arbitragem sobre um conjunto de
// cotações. ArbitragePercentage < 100 indica lucro garantido.
type Opportunity struct {
	ArbitragePercentage        float64    `json:"arbitrage_percentage"`
	GuaranteedProfitPercentage float64    `json:"guaranteed_profit_percentage"`
	StakeSplit                 StakeSplit `json:"stake_split"`
	BestOdds                   events.OddsQuote
	HasDraw                    bool

	// Bookmaker que oferece o melhor preço de cada saída.
	HomeBook string
	AwayBook string
	DrawBook string
}

// bestOdds seleciona o melhor preço (máximo) de cada saída entre todas as
// cotações, independente da origem. Empate inclui empate se qualquer cotação
// precificar o draw.
func bestOdds(quotes []events.OddsQuote) (best events.OddsQuote, hasDraw bool, homeBook, awayBook, drawBook string) {
	for _, q := range quotes {
		if q.HomeWin > best.HomeWin {
			best.HomeWin = q.HomeWin
			homeBook = q.SportsbookID
		}
		if q.AwayWin > best.AwayWin {
			best.AwayWin = q.AwayWin
			awayBook = q.SportsbookID
		}
		if q.Draw > 0 {
			hasDraw = true
			if q.Draw > best.Draw {
				best.Draw = q.Draw
				drawBook = q.SportsbookID
			}
		}
	}
	return best, hasDraw, homeBook, awayBook, drawBook
}

// CalculateArbitragePercentage soma os recíprocos dos melhores preços de cada
// saída, x100. Entrada vazia ou saída obrigatória sem preço válido retorna o
// sentinela neutro 100 em vez de um percentual enganoso.
func CalculateArbitragePercentage(quotes []events.OddsQuote) float64 {
	if len(quotes) == 0 {
		return NeutralPercentage
	}

	best, hasDraw, _, _, _ := bestOdds(quotes)
	if best.HomeWin <= 0 || best.AwayWin <= 0 {
		return NeutralPercentage
	}
	if hasDraw && best.Draw <= 0 {
		return NeutralPercentage
	}

	sum := 1.0/best.HomeWin + 1.0/best.AwayWin
	if hasDraw {
		sum += 1.0 / best.Draw
	}
	return sum * 100.0
}

// CalculateStakePercentages divide a stake proporcionalmente à probabilidade
// implícita (1/odd) de cada saída, normalizada para somar 100. Essa divisão
// iguala o payout independente do resultado.
func CalculateStakePercentages(best events.OddsQuote, hasDraw bool) StakeSplit {
	if best.HomeWin <= 0 || best.AwayWin <= 0 || (hasDraw && best.Draw <= 0) {
		return StakeSplit{}
	}

	invHome := 1.0 / best.HomeWin
	invAway := 1.0 / best.AwayWin
	total := invHome + invAway

	var invDraw float64
	if hasDraw {
		invDraw = 1.0 / best.Draw
		total += invDraw
	}

	split := StakeSplit{
		Home: invHome / total * 100.0,
		Away: invAway / total * 100.0,
	}
	if hasDraw {
		split.Draw = invDraw / total * 100.0
	}
	return split
}

// CalculateArbitrageProfit retorna o lucro garantido para uma stake total dada
// a soma de arbitragem; zero quando não há oportunidade.
func CalculateArbitrageProfit(totalStake, arbitragePercentage float64) float64 {
	if arbitragePercentage >= 100.0 {
		return 0
	}
	return (100.0 - arbitragePercentage) / 100.0 * totalStake
}

// Detect consolida a checagem completa sobre um conjunto de cotações.
// Retorna nil quando não há cotações utilizáveis.
func Detect(quotes []events.OddsQuote) *Opportunity {
	if len(quotes) == 0 {
		return nil
	}

	best, hasDraw, homeBook, awayBook, drawBook := bestOdds(quotes)
	pct := CalculateArbitragePercentage(quotes)
	if pct == NeutralPercentage && (best.HomeWin <= 0 || best.AwayWin <= 0 || (hasDraw && best.Draw <= 0)) {
		return nil
	}

	profit := 0.0
	if pct < 100.0 {
		profit = 100.0 - pct
	}

	return &Opportunity{
		ArbitragePercentage:        pct,
		GuaranteedProfitPercentage: profit,
		StakeSplit:                 CalculateStakePercentages(best, hasDraw),
		BestOdds:                   best,
		HasDraw:                    hasDraw,
		HomeBook:                   homeBook,
		AwayBook:                   awayBook,
		DrawBook:                   drawBook,
	}
}
