package model

import "time"

// Game is a catalog entry. ScoringLogic selects the strategy used to
// validate and rank results; games without server-side scoring (e.g.
// tic-tac-toe vs the local AI) leave it empty.
type Game struct {
	ID           string    `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Name         string    `gorm:"not null;size:100" json:"name"`
	Slug         string    `gorm:"uniqueIndex;not null;size:50" json:"slug"`
	ScoringLogic string    `gorm:"size:50" json:"scoringLogic"`
	CoverURL     string    `json:"coverUrl"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (Game) TableName() string {
	return "games"
}
