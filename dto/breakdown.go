package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
)

type CategoryAmount struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
}

// SpendingBreakdown maps category labels to amounts while keeping the order
// in which categories first appeared. On the wire it is a plain JSON object.
type SpendingBreakdown []CategoryAmount

// Total sums every amount in the breakdown
func (b SpendingBreakdown) Total() float64 {
	var total float64
	for _, c := range b {
		total += c.Amount
	}
	return total
}

// Get returns the amount for a category label
func (b SpendingBreakdown) Get(category string) (float64, bool) {
	for _, c := range b {
		if c.Category == category {
			return c.Amount, true
		}
	}
	return 0, false
}

// Labels returns the category labels in order
func (b SpendingBreakdown) Labels() []string {
	labels := make([]string, 0, len(b))
	for _, c := range b {
		labels = append(labels, c.Category)
	}
	return labels
}

func (b SpendingBreakdown) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range b {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(c.Category)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(c.Amount)
		if err != nil {
			return nil, fmt.Errorf("spending breakdown %q: %w", c.Category, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (b *SpendingBreakdown) UnmarshalJSON(data []byte) error {
	if string(bytes.TrimSpace(data)) == "null" {
		*b = nil
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("spending breakdown: expected object, got %v", tok)
	}

	out := SpendingBreakdown{}
	index := make(map[string]int)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("spending breakdown: unexpected key %v", tok)
		}

		var amount float64
		if err := dec.Decode(&amount); err != nil {
			return fmt.Errorf("spending breakdown %q: %w", key, err)
		}

		// a repeated key keeps its first position and takes the last value
		if i, seen := index[key]; seen {
			out[i].Amount = amount
			continue
		}
		index[key] = len(out)
		out = append(out, CategoryAmount{Category: key, Amount: amount})
	}

	if _, err := dec.Token(); err != nil {
		return err
	}

	*b = out
	return nil
}
