// Package conversation is the caller-owned message history: entries, counts
// and JSON export. Nothing here is stored between calls.
package conversation

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Entry is one message in a conversation. Category is empty for user entries.
type Entry struct {
	ID        uuid.UUID              `json:"id"`
	Role      Role                   `json:"role"`
	Content   string                 `json:"content"`
	Category  string                 `json:"category,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// NewEntry creates an entry with a fresh ID.
func NewEntry(role Role, content, category string, metadata map[string]interface{}, ts time.Time) Entry {
	return Entry{
		ID:        uuid.New(),
		Role:      role,
		Content:   content,
		Category:  category,
		Timestamp: ts.UTC(),
		Metadata:  metadata,
	}
}

// Log is an ordered list of entries. It is a value: Append returns a new Log
// and never writes into the receiver's backing array.
type Log struct {
	Entries []Entry `json:"entries"`
}

// Append returns a copy of l with e added.
func (l Log) Append(e Entry) Log {
	entries := make([]Entry, len(l.Entries), len(l.Entries)+1)
	copy(entries, l.Entries)
	return Log{Entries: append(entries, e)}
}

// Len is the number of entries.
func (l Log) Len() int {
	return len(l.Entries)
}

// Last returns the most recent entry.
func (l Log) Last() (Entry, bool) {
	if len(l.Entries) == 0 {
		return Entry{}, false
	}
	return l.Entries[len(l.Entries)-1], true
}

// Stats are counts computed from a Log.
type Stats struct {
	Total      int            `json:"total"`
	User       int            `json:"user"`
	Assistant  int            `json:"assistant"`
	Categories map[string]int `json:"categories"`
}

// Stats counts entries by role and assistant entries by category.
func (l Log) Stats() Stats {
	s := Stats{Total: len(l.Entries), Categories: map[string]int{}}
	for _, e := range l.Entries {
		switch e.Role {
		case RoleUser:
			s.User++
		case RoleAssistant:
			s.Assistant++
			if e.Category != "" {
				s.Categories[e.Category]++
			}
		}
	}
	return s
}

// ExportJSON renders the entries as an indented JSON array. An empty log
// exports as [].
func (l Log) ExportJSON() ([]byte, error) {
	entries := l.Entries
	if entries == nil {
		entries = []Entry{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(entries); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// ParseLog decodes a log from its JSON form: either {"entries": [...]} or a
// bare array as written by ExportJSON. Empty input is an empty log.
func ParseLog(data []byte) (Log, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return Log{}, nil
	}
	if data[0] == '[' {
		var entries []Entry
		if err := json.Unmarshal(data, &entries); err != nil {
			return Log{}, err
		}
		return Log{Entries: entries}, nil
	}
	var l Log
	if err := json.Unmarshal(data, &l); err != nil {
		return Log{}, err
	}
	return l, nil
}
