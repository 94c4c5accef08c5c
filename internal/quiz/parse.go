package quiz

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"strings"

	"github.com/thywilljoshua/summarease/internal/domain"
)

// Strategy names the fence search that produced a quiz payload.
type Strategy string

const (
	StrategyJSONFence Strategy = "json-fence"
	StrategyBareFence Strategy = "bare-fence"
	StrategyRaw       Strategy = "raw"
)

const (
	fence     = "```"
	jsonFence = "```json"
)

// strategies run in priority order; the first that applies wins even if its payload is invalid.
var strategies = []struct {
	name Strategy
	find func(string) (string, bool)
}{
	{StrategyJSONFence, JSONFenced},
	{StrategyBareFence, BareFenced},
	{StrategyRaw, Raw},
}

// JSONFenced returns the text after the first ```json marker up to the next fence.
// Without a closing fence the rest of the reply is returned.
func JSONFenced(reply string) (string, bool) {
	i := strings.Index(reply, jsonFence)
	if i < 0 {
		return "", false
	}
	return untilFence(reply[i+len(jsonFence):]), true
}

// BareFenced returns the text between the first and second fence markers.
func BareFenced(reply string) (string, bool) {
	i := strings.Index(reply, fence)
	if i < 0 {
		return "", false
	}
	return untilFence(reply[i+len(fence):]), true
}

// Raw returns the reply unchanged.
func Raw(reply string) (string, bool) {
	return reply, true
}

func untilFence(s string) string {
	if j := strings.Index(s, fence); j >= 0 {
		return s[:j]
	}
	return s
}

// ExtractPayload applies the fence strategies in order and returns the trimmed payload.
func ExtractPayload(reply string) (string, Strategy) {
	for _, s := range strategies {
		if payload, ok := s.find(reply); ok {
			return strings.TrimSpace(payload), s.name
		}
	}
	return strings.TrimSpace(reply), StrategyRaw
}

// Parse recovers a quiz from a model reply. Any decoding or shape failure is a ParseError.
func Parse(reply string) (Quiz, error) {
	payload, _ := ExtractPayload(reply)
	if payload == "" {
		return nil, domain.ParseError("quiz reply is empty", nil)
	}

	dec := json.NewDecoder(strings.NewReader(payload))
	dec.UseNumber()
	var generic any
	if err := dec.Decode(&generic); err != nil {
		return nil, domain.ParseError("quiz reply is not valid JSON", err)
	}
	if err := dec.Decode(new(any)); !errors.Is(err, io.EOF) {
		return nil, domain.ParseError("quiz reply has trailing data after the JSON value", nil)
	}
	if err := validateShape(generic); err != nil {
		return nil, domain.ParseError("quiz reply has the wrong shape", err)
	}

	strict := json.NewDecoder(bytes.NewReader([]byte(payload)))
	strict.DisallowUnknownFields()
	var q Quiz
	if err := strict.Decode(&q); err != nil {
		return nil, domain.ParseError("quiz reply has the wrong shape", err)
	}
	if q == nil {
		q = Quiz{}
	}
	return q, nil
}
