package scenario

// DetectionCriteria descreve o formato de aposta de um cenário. Ponteiro nil
// significa "não importa" naquela dimensão.
type DetectionCriteria struct {
	MinOdds   *float64 // odd decimal do lado escolhido
	MaxOdds   *float64
	MinSpread *float64 // magnitude da linha, em pontos
	MaxSpread *float64
	Live      *bool
	Tags      []string // todas devem estar presentes nos atributos da partida
}

// BettingScenario é uma entrada imutável do catálogo: um formato de aposta
// nomeado com orientação histórica de win rate, ROI e fração Kelly.
type BettingScenario struct {
	ID            string
	Name          string
	Description   string
	WinRate       float64 // histórico, 0-100
	ExpectedROI   float64 // %, pode ser negativo
	KellyFraction float64 // fração recomendada para o formato
	Criteria      DetectionCriteria
}

func f(v float64) *float64 { return &v }
func b(v bool) *bool       { return &v }

// catalog é carregado no startup do processo e nunca sofre mutação.
var catalog = []BettingScenario{
	{
		ID:            "heavy_favorite",
		Name:          "Heavy Favorite",
		Description:   "favorito forte pré-jogo; win rate alto, retorno baixo por aposta",
		WinRate:       78.4,
		ExpectedROI:   2.1,
		KellyFraction: 0.5,
		Criteria:      DetectionCriteria{MinOdds: f(1.01), MaxOdds: f(1.40), Live: b(false)},
	},
	{
		ID:            "big_underdog",
		Name:          "Big Underdog",
		Description:   "azarão longo; win rate baixo, variância alta",
		WinRate:       18.9,
		ExpectedROI:   -3.5,
		KellyFraction: 0.15,
		Criteria:      DetectionCriteria{MinOdds: f(4.0), Live: b(false)},
	},
	{
		ID:            "pickem",
		Name:          "Pick'em",
		Description:   "jogo parelho, linha até 2.5 pontos",
		WinRate:       51.2,
		ExpectedROI:   1.4,
		KellyFraction: 0.25,
		Criteria:      DetectionCriteria{MinOdds: f(1.80), MaxOdds: f(2.20), MaxSpread: f(2.5)},
	},
	{
		ID:            "blowout_line",
		Name:          "Blowout Line",
		Description:   "linha de dois dígitos; mercado espera jogo de mão única",
		WinRate:       55.7,
		ExpectedROI:   2.8,
		KellyFraction: 0.3,
		Criteria:      DetectionCriteria{MinSpread: f(10.0)},
	},
	{
		ID:            "back_to_back",
		Name:          "Back-to-Back",
		Description:   "time jogando em noites consecutivas; fadiga historicamente subestimada",
		WinRate:       44.1,
		ExpectedROI:   3.2,
		KellyFraction: 0.25,
		Criteria:      DetectionCriteria{Tags: []string{"back_to_back"}},
	},
	{
		ID:            "live_comeback",
		Name:          "Live Comeback",
		Description:   "aposta ao vivo no time atrás no placar",
		WinRate:       31.5,
		ExpectedROI:   4.6,
		KellyFraction: 0.2,
		Criteria:      DetectionCriteria{Live: b(true), MinOdds: f(2.5), Tags: []string{"trailing"}},
	},
	{
		ID:            "rivalry_game",
		Name:          "Rivalry Game",
		Description:   "clássico; linhas historicamente mais justas, edge raro",
		WinRate:       49.8,
		ExpectedROI:   -0.6,
		KellyFraction: 0.2,
		Criteria:      DetectionCriteria{Tags: []string{"rivalry"}},
	},
}

// Catalog devolve as entradas do catálogo. O slice retornado é uma cópia
// rasa: as entradas em si são tratadas como imutáveis.
func Catalog() []BettingScenario {
	out := make([]BettingScenario, len(catalog))
	copy(out, catalog)
	return out
}
