package ideastore

import (
	"bufio"
	"encoding/json"
	"os"
	"time"

	"github.com/oaps-dev/oaps/internal/types"
)

// recordHistory appends one event to history.jsonl. Grounded directly
// on the teacher's internal/audit.Append: open-append-encode-flush, one
// JSON object per line, HTML-escaping disabled.
func (s *Store) recordHistory(event, actor, id, from, to string) error {
	entry := types.HistoryEntry{
		Timestamp: time.Now().UTC(),
		Event:     event,
		Actor:     actor,
		ID:        id,
		From:      from,
		To:        to,
	}

	f, err := os.OpenFile(s.historyPath(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	bw := bufio.NewWriter(f)
	enc := json.NewEncoder(bw)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(entry); err != nil {
		return err
	}
	return bw.Flush()
}
