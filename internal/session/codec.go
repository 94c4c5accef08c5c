package session

import (
	"encoding/json"
	"fmt"
)

func encode(s *State) ([]byte, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode session: %w", err)
	}
	return b, nil
}

func decode(b []byte) (*State, error) {
	var s State
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &s, nil
}

// clone deep-copies s so callers never share slices with a store.
func clone(s *State) (*State, error) {
	b, err := encode(s)
	if err != nil {
		return nil, err
	}
	return decode(b)
}
