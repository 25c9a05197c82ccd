package dto

import "github.com/google/uuid"

type CredentialsRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

type StockEntryRequest struct {
	Client  string `form:"client"`
	JobID   uint   `form:"job_id"`
	Serials string `form:"serials"`
}

type ErrorResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

type ProfileResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	AgentID   string    `json:"agent_id"`
	DepotName string    `json:"depot_name"`
}

type HealthResponse struct {
	Status     string `json:"status"`
	Timestamp  string `json:"timestamp"`
	DB         string `json:"db"`
	DepotCount int    `json:"depot_count"`
}
