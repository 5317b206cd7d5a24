package workouts

import (
	"time"

	"github.com/2beens/liftlog/internal/gymstats/exercises"
)

const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

type Set struct {
	ExerciseID string   `json:"exerciseId" validate:"required,uuid"`
	Weight     float64  `json:"weight" validate:"gte=0"`
	Reps       int      `json:"reps" validate:"gte=1"`
	RPE        *float64 `json:"rpe,omitempty" validate:"omitempty,gte=1,lte=10"`
}

func (s Set) Volume() float64 {
	return s.Weight * float64(s.Reps)
}

// TotalVolume is the sum of weight x reps over all sets.
func TotalVolume(sets []Set) float64 {
	total := 0.0
	for _, s := range sets {
		total += s.Volume()
	}
	return total
}

type Workout struct {
	ID           string
	UserID       string
	Date         time.Time
	Sets         []Set
	Notes        string
	Duration     *int
	TemplateUsed *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type SetView struct {
	Set
	Exercise *exercises.Ref `json:"exercise"`
}

// View is a workout as returned to the client, with exercise references expanded.
type View struct {
	ID           string    `json:"id"`
	UserID       string    `json:"userId"`
	Date         time.Time `json:"date"`
	Sets         []SetView `json:"sets"`
	Notes        string    `json:"notes"`
	Duration     *int      `json:"duration"`
	TemplateUsed *string   `json:"templateUsed"`
	TotalVolume  float64   `json:"totalVolume"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type Request struct {
	Date         *time.Time `json:"date"`
	Sets         []Set      `json:"sets" validate:"required,min=1,dive"`
	Notes        string     `json:"notes" validate:"max=500"`
	Duration     *int       `json:"duration" validate:"omitempty,gte=0"`
	TemplateUsed *string    `json:"templateUsed" validate:"omitempty,uuid"`
}

type ListParams struct {
	UserID string
	From   *time.Time
	To     *time.Time
	Limit  int
	Skip   int
}

type ListResponse struct {
	Workouts []View `json:"workouts"`
	Total    int    `json:"total"`
}

type DeleteResponse struct {
	DeletedID string `json:"deletedId"`
}
