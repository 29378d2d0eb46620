package dto

import (
	"time"

	"github.com/google/uuid"
)

type SessionResponse struct {
	Id         uuid.UUID  `json:"id"`
	Name       string     `json:"name"`
	AssetTypes []string   `json:"asset_types"`
	Pipeline   string     `json:"pipeline"`
	JobId      *uuid.UUID `json:"job_id"`
	Status     string     `json:"status"`
	IsArchived bool       `json:"is_archived"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  *time.Time `json:"updated_at"`
}
