package topics

const (
	// Resultados
	MatchFinished = "match_finished"

	// Liquidação
	BetSettled = "bet_settled"

	// DLQs
	MatchFinishedDLQ = "match_finished_dlq"
)
