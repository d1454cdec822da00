package export

import (
	"encoding/json"
	"fmt"
	"os"

	applog "github.com/sadopc/schoolcal/internal/log"
	"github.com/sadopc/schoolcal/internal/schedule"
)

// ImportResult reports how a raw record import went.
type ImportResult struct {
	Events  []schedule.Event
	Skipped int
}

// FromJSON reads a file of raw event records (a JSON array, the same shape a
// REST backend would return) and validates each through schedule.ParseRecord.
// Malformed records are skipped and counted, never fatal.
func FromJSON(path string) (ImportResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ImportResult{}, fmt.Errorf("read import file: %w", err)
	}

	var records []json.RawMessage
	if err := json.Unmarshal(data, &records); err != nil {
		return ImportResult{}, fmt.Errorf("decode import file: %w", err)
	}

	var res ImportResult
	for i, raw := range records {
		ev, err := schedule.ParseRecord(raw)
		if err != nil {
			applog.Warn("skipping malformed event record", "index", i, "err", err)
			res.Skipped++
			continue
		}
		res.Events = append(res.Events, ev)
	}
	return res, nil
}
