package model

import (
	"time"

	"gorm.io/datatypes"
)

// OfferItem is a catalog item as referenced from a trade side.
type OfferItem struct {
	ID    string  `json:"id,omitempty"`
	Name  string  `json:"Name" validate:"required,max=100"`
	Value float64 `json:"Value" validate:"gte=0"`
	Image string  `json:"Image,omitempty" validate:"max=500"`
}

type Trade struct {
	ID          string                         `json:"id" gorm:"primaryKey;type:text;not null"`
	Title       string                         `json:"title" gorm:"type:text;not null"`
	Description string                         `json:"description" gorm:"type:text;not null"`
	Player1     datatypes.JSONSlice[OfferItem] `json:"player1"`
	Player2     datatypes.JSONSlice[OfferItem] `json:"player2"`
	P1Total     float64                        `json:"p1Total" gorm:"not null;default:0"`
	P2Total     float64                        `json:"p2Total" gorm:"not null;default:0"`
	Verdict     string                         `json:"verdict" gorm:"size:60"`
	Discord     string                         `json:"discord" gorm:"size:32"`
	Roblox      string                         `json:"roblox" gorm:"size:20"`

	// Abuse investigation fields, never rendered.
	Fingerprint string `json:"-" gorm:"type:text;not null;index:idx_trades_fingerprint_created,priority:1"`
	IP          string `json:"-" gorm:"size:64"`
	UserAgent   string `json:"-" gorm:"type:text"`

	CreatedAt time.Time `json:"createdAt" gorm:"not null;index;index:idx_trades_fingerprint_created,priority:2"`
}
