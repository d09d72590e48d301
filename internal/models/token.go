package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

// Token launch lifecycle states.
const (
	TokenStatusPending   = "pending"
	TokenStatusConfirmed = "confirmed"
	TokenStatusFailed    = "failed"
)

// Token represents a launched token record, keyed by its mint address.
type Token struct {
	ID             uint      `gorm:"primarykey" json:"id"`
	MintAddress    string    `gorm:"size:64;uniqueIndex;not null" json:"mint_address"`
	Name           string    `gorm:"size:128;not null" json:"name"`
	Symbol         string    `gorm:"size:64;not null" json:"symbol"`
	Description    string    `gorm:"size:512" json:"description"`
	ImageURL       string    `gorm:"type:text" json:"image_url"`
	MetadataURI    string    `gorm:"type:text" json:"metadata_uri"`
	CreatorAddress string    `gorm:"size:64;not null" json:"creator_address"`
	InitialSupply  float64   `gorm:"not null;default:0" json:"initial_supply"`
	Website        string    `gorm:"size:255" json:"website"`
	Twitter        string    `gorm:"size:128" json:"twitter"`
	Telegram       string    `gorm:"size:128" json:"telegram"`
	Discord        string    `gorm:"size:128" json:"discord"`
	Signature      string    `gorm:"size:128" json:"signature"`
	Status         string    `gorm:"size:16;default:'pending'" json:"status"`
	Metadata       JSONB     `gorm:"type:jsonb" json:"metadata"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Token) TableName() string {
	return "tokens"
}

// JSONB is a custom type to handle JSONB data
type JSONB map[string]interface{}

// Value implements the driver.Valuer interface
func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

// Scan implements the sql.Scanner interface
func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}

	return json.Unmarshal(bytes, j)
}
