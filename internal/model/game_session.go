package model

import (
	"time"

	"gorm.io/datatypes"
)

// GameSession binds a server-generated initial state to an integrity hash.
// State and IntegrityHash are immutable after creation; Gameplay and
// ValidatedResults are written exactly once by validation.
type GameSession struct {
	ID               string         `gorm:"type:uuid;primary_key" json:"id"`
	GameSlug         string         `gorm:"not null;size:50;index" json:"gameSlug"`
	OwnerID          string         `gorm:"not null;size:64" json:"ownerId"`
	State            datatypes.JSON `gorm:"not null" json:"state"`
	IntegrityHash    string         `gorm:"not null;size:64" json:"integrityHash"`
	Gameplay         datatypes.JSON `json:"gameplay,omitempty"`
	ValidatedResults datatypes.JSON `json:"validatedResults,omitempty"`
	Variant          string         `gorm:"size:20" json:"variant,omitempty"`
	CreatedAt        time.Time      `json:"createdAt"`
	Expiry           time.Time      `gorm:"index" json:"expiry"`
}

func (GameSession) TableName() string {
	return "game_sessions"
}
