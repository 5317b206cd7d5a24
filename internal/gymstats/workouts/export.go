package workouts

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/2beens/liftlog/internal/gymstats/exercises"
	"github.com/2beens/liftlog/internal/telemetry/tracing"
)

var exportCSVHeaders = []string{
	"Date",
	"Exercise",
	"Weight",
	"Reps",
	"RPE",
	"Set Volume",
	"Workout Volume",
	"Notes",
}

// Export renders the user's workouts in the date range as CSV, one row per set,
// oldest workout first.
func (s *Service) Export(ctx context.Context, userID string, from, to *time.Time) (_ []byte, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.workouts.export")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	workouts, err := s.repo.ListAll(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	var ids []string
	for _, w := range workouts {
		for _, set := range w.Sets {
			ids = append(ids, set.ExerciseID)
		}
	}
	found, err := s.catalog.Lookup(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("lookup exercises: %w", err)
	}

	return buildCSV(workouts, found)
}

func buildCSV(workouts []Workout, found map[string]exercises.Exercise) ([]byte, error) {
	var output bytes.Buffer
	writer := csv.NewWriter(&output)
	if err := writer.Write(exportCSVHeaders); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}

	for _, w := range workouts {
		workoutVolume := formatNumber(TotalVolume(w.Sets))
		date := w.Date.UTC().Format(time.DateOnly)
		for _, set := range w.Sets {
			exerciseName := ""
			if e, ok := found[set.ExerciseID]; ok {
				exerciseName = e.Name
			}
			rpe := ""
			if set.RPE != nil {
				rpe = formatNumber(*set.RPE)
			}

			if err := writer.Write([]string{
				date,
				exerciseName,
				formatNumber(set.Weight),
				strconv.Itoa(set.Reps),
				rpe,
				formatNumber(set.Volume()),
				workoutVolume,
				w.Notes,
			}); err != nil {
				return nil, fmt.Errorf("write csv row: %w", err)
			}
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}

	return output.Bytes(), nil
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func ExportFilename(now time.Time) string {
	return fmt.Sprintf("liftlog-workouts-%s.csv", now.UTC().Format(time.DateOnly))
}
