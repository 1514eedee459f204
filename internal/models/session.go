package models

import "time"

// SessionRecord is the persisted form of a conversation session. The
// volatile turn state (pending action, consequence verdict, slot-fill
// progress) is serialized into StateJSON by the agent's DB-backed store.
type SessionRecord struct {
	SessionID   string    `gorm:"primaryKey;size:64"`
	CurrentPage string    `gorm:"size:32"`
	StateJSON   string    `gorm:"type:json"`
	Status      string    `gorm:"size:16;default:active;index"` // active, expired
	LastActive  time.Time `gorm:"index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Turns []SessionTurn `gorm:"foreignKey:SessionID;references:SessionID"`
}

// SessionTurn is one message in a session's ordered history.
type SessionTurn struct {
	ID        uint   `gorm:"primaryKey;autoIncrement"`
	SessionID string `gorm:"size:64;index:idx_session_seq"`
	Sequence  int    `gorm:"index:idx_session_seq"`
	Role      string `gorm:"size:12"` // user or assistant
	Content   string `gorm:"type:text"`
	CreatedAt time.Time
}
