package model

import (
	"time"

	"github.com/lib/pq"
)

type User struct {
	ID        string         `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Nickname  string         `gorm:"not null;size:50" json:"nickname"`
	Email     string         `gorm:"size:255" json:"email"`
	AvatarURL string         `json:"avatarUrl"`
	ScoreIDs  pq.StringArray `gorm:"type:text[]" json:"scoreIds"`
	Strikes   int            `gorm:"not null;default:0" json:"-"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

func (User) TableName() string {
	return "users"
}

// GuestID is the owner sentinel for sessions created before login.
const GuestID = "guest"
