package events

// AlgorithmWeight é o peso histórico de um algoritmo no consenso.
// Weight é não-negativo e normalizado (soma 1) antes do uso; WinRate é a
// acurácia histórica (0-100) da qual o peso é derivado fora deste sistema.
type AlgorithmWeight struct {
	AlgorithmID   string  `json:"algorithm_id"`
	AlgorithmName string  `json:"algorithm_name"`
	Weight        float64 `json:"weight"`
	WinRate       float64 `json:"win_rate"`
}
