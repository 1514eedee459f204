package agent

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/moviops/conductor/internal/models"
	"gorm.io/gorm"
)

// DBStore persists sessions in the database, one SessionRecord per session
// plus append-only SessionTurn rows for the history. The volatile turn state
// is serialized into the record's StateJSON column.
type DBStore struct {
	db *gorm.DB
}

// NewDBStore creates a GORM-backed session store.
func NewDBStore(db *gorm.DB) (*DBStore, error) {
	if db == nil {
		return nil, fmt.Errorf("agent: db store: db is required")
	}
	return &DBStore{db: db}, nil
}

// sessionState is the persisted shape of a session's volatile fields.
type sessionState struct {
	Pending     *PendingAction `json:"pending,omitempty"`
	Consequence *Verdict       `json:"consequence,omitempty"`
	SlotFill    *SlotFillState `json:"slot_fill,omitempty"`
}

// Load reads an active session record and its ordered history. Expired
// records are treated as missing, so the next turn starts fresh.
func (ds *DBStore) Load(id string) (*Session, error) {
	var rec models.SessionRecord
	err := ds.db.Where("session_id = ? AND status = ?", id, "active").First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("agent: load session %s: %w", id, err)
	}

	sess := &Session{
		ID:          rec.SessionID,
		CurrentPage: rec.CurrentPage,
		LastActive:  rec.LastActive,
	}

	if rec.StateJSON != "" {
		var st sessionState
		if err := json.Unmarshal([]byte(rec.StateJSON), &st); err != nil {
			return nil, fmt.Errorf("agent: decode session state %s: %w", id, err)
		}
		sess.Pending = st.Pending
		sess.Consequence = st.Consequence
		sess.SlotFill = st.SlotFill
	}

	var turns []models.SessionTurn
	if err := ds.db.Where("session_id = ?", id).Order("sequence").Find(&turns).Error; err != nil {
		return nil, fmt.Errorf("agent: load session turns %s: %w", id, err)
	}
	for _, t := range turns {
		sess.History = append(sess.History, Message{Role: t.Role, Content: t.Content})
	}

	return sess, nil
}

// Save upserts the session record and appends any history entries not yet
// persisted.
func (ds *DBStore) Save(sess *Session) error {
	st := sessionState{
		Pending:     sess.Pending,
		Consequence: sess.Consequence,
		SlotFill:    sess.SlotFill,
	}
	stateJSON, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("agent: encode session state %s: %w", sess.ID, err)
	}

	rec := models.SessionRecord{
		SessionID:   sess.ID,
		CurrentPage: sess.CurrentPage,
		StateJSON:   string(stateJSON),
		Status:      "active",
		LastActive:  sess.LastActive,
	}
	if err := ds.db.Save(&rec).Error; err != nil {
		return fmt.Errorf("agent: save session %s: %w", sess.ID, err)
	}

	var persisted int64
	if err := ds.db.Model(&models.SessionTurn{}).Where("session_id = ?", sess.ID).Count(&persisted).Error; err != nil {
		return fmt.Errorf("agent: count session turns %s: %w", sess.ID, err)
	}
	for i := int(persisted); i < len(sess.History); i++ {
		turn := models.SessionTurn{
			SessionID: sess.ID,
			Sequence:  i + 1,
			Role:      sess.History[i].Role,
			Content:   sess.History[i].Content,
		}
		if err := ds.db.Create(&turn).Error; err != nil {
			return fmt.Errorf("agent: append session turn %s/%d: %w", sess.ID, i+1, err)
		}
	}

	return nil
}

// Sweep marks sessions idle since before the cutoff as expired. Their
// history rows are kept for audit; Load no longer returns them.
func (ds *DBStore) Sweep(olderThan time.Time) (int, error) {
	result := ds.db.Model(&models.SessionRecord{}).
		Where("status = ? AND last_active < ?", "active", olderThan).
		Updates(map[string]any{"status": "expired", "state_json": ""})
	if result.Error != nil {
		return 0, fmt.Errorf("agent: sweep sessions: %w", result.Error)
	}
	return int(result.RowsAffected), nil
}
