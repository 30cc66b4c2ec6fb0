package model

import "time"

type BannedWord struct {
	ID        string    `json:"id" gorm:"primaryKey;type:text;not null"`
	Word      string    `json:"word" gorm:"uniqueIndex;not null;size:100"`
	CreatedAt time.Time `json:"createdAt" gorm:"not null"`
}
