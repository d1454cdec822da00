package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sadopc/schoolcal/internal/schedule"
)

type jsonExport struct {
	ExportedAt  string           `json:"exported_at"`
	Count       int              `json:"count"`
	Occurrences []jsonOccurrence `json:"occurrences"`
}

type jsonOccurrence struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Day       string `json:"day"`
	Start     string `json:"start"`
	End       string `json:"end"`
	Variant   string `json:"variant"`
	AllDay    bool   `json:"all_day,omitempty"`
	Recurring bool   `json:"recurring,omitempty"`
}

// ToJSON writes expanded occurrences to a JSON file.
func ToJSON(occs []schedule.Occurrence, path string) error {
	out := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Count:      len(occs),
	}

	for _, occ := range occs {
		out.Occurrences = append(out.Occurrences, jsonOccurrence{
			ID:        occ.ID,
			Title:     occ.Title,
			Day:       occ.Day.Format("2006-01-02"),
			Start:     occ.Start.Format(time.RFC3339),
			End:       occ.End.Format(time.RFC3339),
			Variant:   string(occ.Variant),
			AllDay:    occ.AllDay(),
			Recurring: occ.IsRecurring,
		})
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
