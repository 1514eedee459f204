package models

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

// Path is an ordered sequence of stops that routes are laid over.
type Path struct {
	PathID                   uint   `gorm:"primaryKey;autoIncrement"`
	PathName                 string `gorm:"size:128;not null;index"`
	OrderedStopIDs           string `gorm:"type:json"` // JSON array of stop IDs, in travel order
	Description              string `gorm:"type:text"`
	TotalDistanceKM          float64
	EstimatedDurationMinutes int
	IsActive                 bool `gorm:"default:true"`
	CreatedAt                time.Time
	UpdatedAt                time.Time
	DeletedAt                gorm.DeletedAt `gorm:"index"`
}

// StopIDs decodes the ordered stop ID list. A malformed or empty column
// yields an empty slice.
func (p *Path) StopIDs() []uint {
	var ids []uint
	if p.OrderedStopIDs == "" {
		return ids
	}
	json.Unmarshal([]byte(p.OrderedStopIDs), &ids)
	return ids
}

// SetStopIDs encodes the ordered stop ID list into the JSON column.
func (p *Path) SetStopIDs(ids []uint) error {
	data, err := json.Marshal(ids)
	if err != nil {
		return err
	}
	p.OrderedStopIDs = string(data)
	return nil
}

// ContainsStop reports whether the path's ordered stop list includes stopID.
func (p *Path) ContainsStop(stopID uint) bool {
	for _, id := range p.StopIDs() {
		if id == stopID {
			return true
		}
	}
	return false
}
