package sessions

import (
	"encoding/json"
	"fmt"
	"pathmatrix-service/internal/domain"
)

// Sessions are stored encoded so that callers never share a live value
// with the store.
func encode(s *domain.Session) ([]byte, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode session %s: %w", s.ID, err)
	}
	return b, nil
}

func decode(id string, b []byte) (*domain.Session, error) {
	var s domain.Session
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}
	if s.Demand == nil {
		s.Demand = domain.DemandMap{}
	}
	if s.ManualEntries == nil {
		s.ManualEntries = map[string]int{}
	}
	return &s, nil
}
