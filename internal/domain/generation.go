package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// DataStatus marks a generation row as active or soft-deleted.
// Values are DataStatusActive and DataStatusDeleted.
type DataStatus string

const (
	DataStatusActive  DataStatus = "A"
	DataStatusDeleted DataStatus = "D"
)

// StringArray is a custom type for storing string arrays as JSON in the database.
type StringArray []string

// Value implements the driver.Valuer interface for database serialization.
// Parameters: none.
// Returns:
//   - driver.Value: JSON-encoded string representation of the slice.
//   - error: non-nil if marshaling fails.
func (a StringArray) Value() (driver.Value, error) {
	if a == nil {
		return "[]", nil
	}
	b, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface for database deserialization.
// Parameters:
//   - value: raw database value to decode.
// Returns:
//   - error: non-nil if decoding fails or the type is unexpected.
func (a *StringArray) Scan(value interface{}) error {
	if value == nil {
		*a = StringArray{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		str, ok := value.(string)
		if !ok {
			return errors.New("failed to scan StringArray")
		}
		bytes = []byte(str)
	}
	return json.Unmarshal(bytes, a)
}

// Generation represents a persisted product-description generation.
// A row is owned by a single user and only ever overwritten as a whole;
// deletes are soft (DataStatus flips to DataStatusDeleted).
type Generation struct {
	ID               string      `gorm:"type:text;primaryKey" json:"id"`
	UserID           string      `gorm:"type:text;not null;index:idx_generations_user" json:"user_id"`
	ProductName      string      `gorm:"type:text;not null" json:"product_name"`
	ProductCategory  string      `gorm:"type:text" json:"product_category"`
	TargetAudience   string      `gorm:"type:text" json:"target_audience"`
	UserDescription  string      `gorm:"type:text" json:"user_description"`
	TargetLanguage   string      `gorm:"type:text" json:"target_language"`
	ImageURLs        StringArray `gorm:"type:text" json:"image_urls"`
	FinalDescription string      `gorm:"type:text;not null" json:"final_description"`
	DataStatus       DataStatus  `gorm:"type:text;index:idx_generations_status;default:A" json:"-"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`
}

// TableName returns the database table name for Generation.
// Parameters: none.
// Returns:
//   - string: table name for GORM mapping.
func (Generation) TableName() string {
	return "generations"
}

// Attributes extracts the generation attributes stored on the record.
// Parameters: none.
// Returns:
//   - GenerationAttributes: the stored attribute values.
func (g *Generation) Attributes() GenerationAttributes {
	return GenerationAttributes{
		ProductName:     g.ProductName,
		ProductCategory: g.ProductCategory,
		TargetAudience:  g.TargetAudience,
		UserDescription: g.UserDescription,
		TargetLanguage:  g.TargetLanguage,
	}
}
