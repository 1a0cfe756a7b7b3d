package store

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/krishiapp/krishi-settings/internal/domain"
	"github.com/krishiapp/krishi-settings/internal/id"
)

// Record is the stored envelope around one settings bag.
type Record struct {
	Revision  string              `json:"revision"`
	UpdatedAt time.Time           `json:"updatedAt"`
	Settings  domain.UserSettings `json:"settings"`
}

// NewRecord wraps settings with a fresh revision and timestamp.
func NewRecord(settings domain.UserSettings) Record {
	return Record{
		Revision:  id.NewRevision(),
		UpdatedAt: time.Now().UTC(),
		Settings:  settings,
	}
}

// Marshal encodes the record as JSON.
func (r Record) Marshal() ([]byte, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("marshal settings: %w", err)
	}
	return data, nil
}

// Encode wraps settings in a fresh Record and marshals it.
func Encode(settings domain.UserSettings) ([]byte, error) {
	return NewRecord(settings).Marshal()
}

// Decode unmarshals a stored Record. Fields missing from the stored
// settings keep their stock defaults.
func Decode(data []byte) (Record, error) {
	rec := Record{Settings: domain.DefaultUserSettings()}
	if err := json.Unmarshal(data, &rec); err != nil {
		return Record{}, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	return rec, nil
}
