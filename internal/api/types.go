package api

import "encoding/json"

// HealthStatus is the fixed /health payload.
type HealthStatus struct {
	Status  string `json:"status" example:"healthy"`
	Message string `json:"message" example:"Tic-Tac-Toe app is running!"`
}

// GameStats mirrors the counters the game page keeps.
type GameStats struct {
	AIXWins    int `json:"aiXWins"`
	AIOWins    int `json:"aiOWins"`
	Ties       int `json:"ties"`
	TotalGames int `json:"totalGames"`
}

type GameStatsResponse struct {
	Message string    `json:"message"`
	Stats   GameStats `json:"stats"`
}

type SaveStatsResponse struct {
	Message    string          `json:"message"`
	SavedStats json.RawMessage `json:"saved_stats" swaggertype:"object"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
