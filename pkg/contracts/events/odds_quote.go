package events

import "time"

// OddsQuote são os preços decimais de um bookmaker para um mercado 1x2.
// Draw = 0 indica mercado de duas saídas (sem empate).
type OddsQuote struct {
	SportsbookID string  `json:"sportsbook_id"`
	HomeWin      float64 `json:"home_win"`
	AwayWin      float64 `json:"away_win"`
	Draw         float64 `json:"draw,omitempty"`
}

// OddsQuoteUpdate é o evento publicado no tópico "odds_quotes":
// o preço corrente de um bookmaker para uma partida.
type OddsQuoteUpdate struct {
	MatchID   string    `json:"match_id"`
	Quote     OddsQuote `json:"quote"`
	UpdatedAt time.Time `json:"updated_at"`
	Source    string    `json:"source"`
	Version   int       `json:"version"`
}
