package topics

const (
	// Entradas
	PredictionResults = "prediction_results"
	OddsQuotes        = "odds_quotes"

	// Saída
	Recommendations = "recommendations"

	// DLQs
	PredictionResultsDLQ = "prediction_results_dlq"
)
