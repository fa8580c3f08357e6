package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// OptionList stores a question's answer options as a JSON text column.
type OptionList []string

func (o OptionList) Value() (driver.Value, error) {
	b, err := json.Marshal([]string(o))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (o *OptionList) Scan(value interface{}) error {
	if value == nil {
		*o = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, o)
	case string:
		return json.Unmarshal([]byte(v), o)
	}
	return fmt.Errorf("unsupported type %T for OptionList", value)
}

type Question struct {
	ID            uint           `gorm:"primarykey" json:"id"`
	ExamID        uint           `json:"exam_id" gorm:"not null;index"`
	Text          string         `json:"text" gorm:"type:text;not null"`
	Options       OptionList     `json:"options" gorm:"type:text;not null"`
	CorrectAnswer string         `json:"correct_answer" gorm:"type:text;not null"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}
