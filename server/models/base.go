package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BaseModel struct {
	ID        string    `json:"id,omitempty" gorm:"type:varchar(36);primarykey"`
	CreatedAt time.Time `json:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// BeforeCreate assigns a new identifier to records created without one.
func (base *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if base.ID == "" {
		base.ID = uuid.NewString()
	}
	return nil
}

// ---------------------------------------------------------------------------------//
// Helper functions
// --------------------------------------------------------------------------------//

// updatesFrom builds the column map for a partial update, skipping nil fields.
func updatesFrom(fields map[string]*string) map[string]interface{} {
	data := make(map[string]interface{})
	for column, value := range fields {
		if value != nil {
			data[column] = *value
		}
	}
	return data
}
