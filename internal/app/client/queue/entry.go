package queue

import (
	"encoding/json"
	"fmt"
	"time"

	"sitelog/internal/domain/entry"
)

// Entry отложенная запись, ожидающая отправки
type Entry struct {
	ID         string
	Payload    entry.Payload
	EnqueuedAt time.Time
	// Attempts число неудачных проходов синхронизации
	Attempts int
}

func (e Entry) Kind() entry.Kind {
	return e.Payload.Kind()
}

type wireEntry struct {
	ID         string          `json:"id"`
	Kind       entry.Kind      `json:"kind"`
	Payload    json.RawMessage `json:"payload"`
	EnqueuedAt time.Time       `json:"enqueuedAt"`
	Attempts   int             `json:"attempts,omitempty"`
}

func (e Entry) MarshalJSON() ([]byte, error) {
	if e.Payload == nil {
		return nil, fmt.Errorf("queue entry %s: %w", e.ID, entry.ErrInvalidPayload)
	}

	payload, err := json.Marshal(e.Payload)
	if err != nil {
		return nil, fmt.Errorf("queue entry %s: %w", e.ID, err)
	}

	return json.Marshal(wireEntry{
		ID:         e.ID,
		Kind:       e.Payload.Kind(),
		Payload:    payload,
		EnqueuedAt: e.EnqueuedAt,
		Attempts:   e.Attempts,
	})
}

func (e *Entry) UnmarshalJSON(data []byte) error {
	var w wireEntry
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	p, err := entry.Decode(w.Kind, w.Payload)
	if err != nil {
		return err
	}

	*e = Entry{
		ID:         w.ID,
		Payload:    p,
		EnqueuedAt: w.EnqueuedAt,
		Attempts:   w.Attempts,
	}
	return nil
}
