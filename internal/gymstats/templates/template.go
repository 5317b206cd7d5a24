package templates

import (
	"strings"
	"time"

	"github.com/2beens/liftlog/internal/gymstats/exercises"
)

const (
	DefaultEntrySets = 3
	DefaultEntryReps = 10
)

type Entry struct {
	ExerciseID string   `json:"exerciseId" validate:"required,uuid"`
	Sets       int      `json:"sets" validate:"gte=0,lte=50"`
	Reps       int      `json:"reps" validate:"gte=0,lte=1000"`
	Weight     *float64 `json:"weight,omitempty" validate:"omitempty,gte=0"`
}

type Template struct {
	ID          string
	UserID      string
	Name        string
	Description string
	Exercises   []Entry
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type EntryView struct {
	Entry
	Exercise *exercises.Ref `json:"exercise"`
}

type View struct {
	ID          string      `json:"id"`
	UserID      string      `json:"userId"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Exercises   []EntryView `json:"exercises"`
	IsActive    bool        `json:"isActive"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

type Request struct {
	Name        string  `json:"name" validate:"required,max=100"`
	Description string  `json:"description" validate:"max=200"`
	Exercises   []Entry `json:"exercises" validate:"required,min=1,dive"`
}

func (r *Request) normalize() {
	r.Name = strings.TrimSpace(r.Name)
	for i := range r.Exercises {
		if r.Exercises[i].Sets == 0 {
			r.Exercises[i].Sets = DefaultEntrySets
		}
		if r.Exercises[i].Reps == 0 {
			r.Exercises[i].Reps = DefaultEntryReps
		}
	}
}

// SuggestedSet is a pre-filled set produced from a template entry.
type SuggestedSet struct {
	ExerciseID string  `json:"exerciseId"`
	Weight     float64 `json:"weight"`
	Reps       int     `json:"reps"`
}

type UseResponse struct {
	Template      *View          `json:"template"`
	SuggestedSets []SuggestedSet `json:"suggestedSets"`
}

type DeleteResponse struct {
	DeletedID string `json:"deletedId"`
}

// Expand turns template entries into suggested sets: every entry is repeated
// Sets times, with its target weight (0 when unset) and target reps (10 when unset).
func Expand(entries []Entry) []SuggestedSet {
	suggested := []SuggestedSet{}
	for _, entry := range entries {
		weight := 0.0
		if entry.Weight != nil {
			weight = *entry.Weight
		}
		reps := entry.Reps
		if reps == 0 {
			reps = DefaultEntryReps
		}
		for i := 0; i < entry.Sets; i++ {
			suggested = append(suggested, SuggestedSet{
				ExerciseID: entry.ExerciseID,
				Weight:     weight,
				Reps:       reps,
			})
		}
	}
	return suggested
}
