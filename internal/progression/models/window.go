package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// RecentWindowCap is the fixed capacity of the recent-answer window.
const RecentWindowCap = 10

// RecentWindow is a bounded FIFO of correctness booleans, oldest first.
// It persists as a JSON text column.
type RecentWindow []bool

// Push appends an answer outcome, evicting the oldest entry once the
// window is full.
func (w RecentWindow) Push(correct bool) RecentWindow {
	next := append(w, correct)
	if len(next) > RecentWindowCap {
		next = next[len(next)-RecentWindowCap:]
	}
	return next
}

// CorrectCount returns how many answers in the window were correct.
func (w RecentWindow) CorrectCount() int {
	n := 0
	for _, c := range w {
		if c {
			n++
		}
	}
	return n
}

// Accuracy returns the window accuracy as a 0-100 percentage. An empty
// window reports 0.
func (w RecentWindow) Accuracy() float64 {
	if len(w) == 0 {
		return 0
	}
	return float64(w.CorrectCount()) / float64(len(w)) * 100
}

func (w RecentWindow) Value() (driver.Value, error) {
	if w == nil {
		w = RecentWindow{}
	}
	b, err := json.Marshal(w)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (w *RecentWindow) Scan(value interface{}) error {
	if value == nil {
		*w = RecentWindow{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported recent window column type %T", value)
	}
	if len(data) == 0 {
		*w = RecentWindow{}
		return nil
	}
	return json.Unmarshal(data, w)
}
