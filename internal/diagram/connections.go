package diagram

import (
	"fmt"

	"github.com/google/uuid"
)

// Endpoint identifies one column row on the canvas. It does not own the
// referenced item.
type Endpoint struct {
	ItemID   string
	ColumnID string
}

func (e Endpoint) String() string {
	return fmt.Sprintf("%s.%s", e.ItemID, e.ColumnID)
}

// Connection is a directed column-to-column link. ID only distinguishes
// duplicates for the rendering surface.
type Connection struct {
	ID    string
	Start Endpoint
	End   Endpoint
}

// Touches reports whether either end belongs to itemID.
func (c Connection) Touches(itemID string) bool {
	return c.Start.ItemID == itemID || c.End.ItemID == itemID
}

// ConnectionStore keeps connections in insertion order. The same start/end
// pair may be added more than once.
type ConnectionStore struct {
	connections []Connection
}

func NewConnectionStore() *ConnectionStore {
	return &ConnectionStore{
		connections: make([]Connection, 0),
	}
}

func (s *ConnectionStore) Add(start, end Endpoint) (Connection, error) {
	if start == end {
		return Connection{}, &ConnectionError{Start: start, End: end, Err: ErrSelfLoop}
	}
	conn := Connection{
		ID:    uuid.NewString(),
		Start: start,
		End:   end,
	}
	s.connections = append(s.connections, conn)
	return conn, nil
}

// RemoveByItem drops every connection touching itemID and returns how many
// were removed.
func (s *ConnectionStore) RemoveByItem(itemID string) int {
	kept := make([]Connection, 0, len(s.connections))
	for _, conn := range s.connections {
		if !conn.Touches(itemID) {
			kept = append(kept, conn)
		}
	}
	removed := len(s.connections) - len(kept)
	s.connections = kept
	return removed
}

func (s *ConnectionStore) Touching(itemID string) []Connection {
	var out []Connection
	for _, conn := range s.connections {
		if conn.Touches(itemID) {
			out = append(out, conn)
		}
	}
	return out
}

func (s *ConnectionStore) List() []Connection {
	out := make([]Connection, len(s.connections))
	copy(out, s.connections)
	return out
}

func (s *ConnectionStore) Len() int {
	return len(s.connections)
}
