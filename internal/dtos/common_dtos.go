package dtos

import "github.com/Aliyan555-555/Aaraazi-Prototype-sub002/internal/models"

type MessageResponse struct {
	Message string `json:"message"`
}

// MatchRunResponse summarizes one matching engine pass.
type MatchRunResponse struct {
	TotalMatches int                    `json:"total_matches"`
	Matches      []models.PropertyMatch `json:"matches"`
}
