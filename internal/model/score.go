package model

import (
	"time"

	"gorm.io/datatypes"
)

// Score holds a user's best validated result for one game. The
// (user_id, game_id) pair is unique; a better submission overwrites
// ScoreData in place rather than adding a row.
type Score struct {
	ID        string         `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID    string         `gorm:"type:uuid;not null;index" json:"userId"`
	GameID    string         `gorm:"type:uuid;not null;index" json:"gameId"`
	ScoreData datatypes.JSON `gorm:"not null" json:"scoreData"`
	Variant   string         `gorm:"size:20" json:"variant,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	User      User           `gorm:"foreignKey:UserID" json:"-"`
	Game      Game           `gorm:"foreignKey:GameID" json:"-"`
}

func (Score) TableName() string {
	return "scores"
}
