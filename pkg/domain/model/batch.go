package model

import (
	"time"

	"github.com/soochi-lab/soochi/pkg/domain/types"
)

// BatchJob tracks a submitted extraction batch so the subscriber can
// find and process its results later.
type BatchJob struct {
	ID        types.BatchID     `json:"id"`
	Provider  types.Provider    `json:"provider"`
	Status    types.BatchStatus `json:"status"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}
