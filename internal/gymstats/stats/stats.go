package stats

import (
	"math"
	"sort"
	"time"

	"github.com/2beens/liftlog/internal/gymstats/workouts"
)

const (
	DefaultWeeks = 12
	MaxWeeks     = 520
)

type PersonalRecord struct {
	Estimated1RM float64   `json:"estimated1RM"`
	Weight       float64   `json:"weight"`
	Reps         int       `json:"reps"`
	Date         time.Time `json:"date"`
}

// Estimated1RM is the Epley estimate of the one rep max, rounded to the nearest integer.
func Estimated1RM(weight float64, reps int) float64 {
	return math.Round(weight * (1 + float64(reps)/30))
}

// WeekKey returns the Sunday that starts t's week (UTC), as YYYY-MM-DD.
func WeekKey(t time.Time) string {
	u := t.UTC()
	weekStart := u.AddDate(0, 0, -int(u.Weekday()))
	return weekStart.Format(time.DateOnly)
}

// WindowStart is the beginning of the trailing window of the given number of weeks.
func WindowStart(now time.Time, weeks int) time.Time {
	return now.Add(-time.Duration(weeks) * 7 * 24 * time.Hour)
}

// WeeklyVolume sums weight x reps of all sets per week. Weeks without workouts are absent.
func WeeklyVolume(history []workouts.Workout) map[string]float64 {
	volume := make(map[string]float64)
	for _, w := range history {
		volume[WeekKey(w.Date)] += workouts.TotalVolume(w.Sets)
	}
	return volume
}

// PersonalRecords returns the best estimated 1RM per exercise name. History is
// scanned chronologically and a record is only replaced by a strictly better
// estimate, so the earliest set wins a tie. Sets whose exercise has no name in
// names are skipped.
func PersonalRecords(history []workouts.Workout, names map[string]string) map[string]PersonalRecord {
	ordered := make([]workouts.Workout, len(history))
	copy(ordered, history)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Date.Before(ordered[j].Date)
	})

	records := make(map[string]PersonalRecord)
	for _, w := range ordered {
		for _, set := range w.Sets {
			name, ok := names[set.ExerciseID]
			if !ok {
				continue
			}

			estimate := Estimated1RM(set.Weight, set.Reps)
			if current, exists := records[name]; exists && estimate <= current.Estimated1RM {
				continue
			}
			records[name] = PersonalRecord{
				Estimated1RM: estimate,
				Weight:       set.Weight,
				Reps:         set.Reps,
				Date:         w.Date,
			}
		}
	}
	return records
}
