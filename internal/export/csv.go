package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"time"

	"github.com/sadopc/schoolcal/internal/schedule"
)

// ToCSV writes expanded occurrences to a CSV file, one row per occurrence.
func ToCSV(occs []schedule.Occurrence, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	// Header
	if err := w.Write([]string{"ID", "Title", "Day", "Start", "End", "Variant", "All Day", "Recurring"}); err != nil {
		return err
	}

	for _, occ := range occs {
		row := []string{
			occ.ID,
			occ.Title,
			occ.Day.Format("2006-01-02"),
			occ.Start.Format(time.RFC3339),
			occ.End.Format(time.RFC3339),
			string(occ.Variant),
			fmt.Sprintf("%t", occ.AllDay()),
			fmt.Sprintf("%t", occ.IsRecurring),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}
