package exercises

import (
	"strings"
	"time"
)

const (
	CategoryChest     = "chest"
	CategoryBack      = "back"
	CategoryShoulders = "shoulders"
	CategoryArms      = "arms"
	CategoryLegs      = "legs"
	CategoryCore      = "core"
	CategoryCardio    = "cardio"
	CategoryOther     = "other"
)

const (
	EquipmentBarbell    = "barbell"
	EquipmentDumbbell   = "dumbbell"
	EquipmentMachine    = "machine"
	EquipmentCable      = "cable"
	EquipmentBodyweight = "bodyweight"
	EquipmentOther      = "other"
)

type Exercise struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	MuscleGroup string    `json:"muscleGroup"`
	Equipment   string    `json:"equipment"`
	IsCustom    bool      `json:"isCustom"`
	CreatedBy   *string   `json:"createdBy,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// VisibleTo reports whether the user may reference the exercise:
// global ones are visible to everybody, custom ones only to their owner.
func (e *Exercise) VisibleTo(userID string) bool {
	if !e.IsCustom {
		return true
	}
	return e.CreatedBy != nil && *e.CreatedBy == userID
}

func (e *Exercise) Ref() *Ref {
	return &Ref{
		ID:       e.ID,
		Name:     e.Name,
		Category: e.Category,
	}
}

// Ref is the short form of an exercise embedded into sets and template entries.
type Ref struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
}

type ListItem struct {
	Exercise
	IsFavorite bool `json:"isFavorite"`
}

type CreateRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Category    string `json:"category" validate:"required,oneof=chest back shoulders arms legs core cardio other"`
	MuscleGroup string `json:"muscleGroup" validate:"required,max=100"`
	Equipment   string `json:"equipment" validate:"omitempty,oneof=barbell dumbbell machine cable bodyweight other"`
}

func (r *CreateRequest) normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.MuscleGroup = strings.TrimSpace(r.MuscleGroup)
	r.Category = strings.TrimSpace(r.Category)
	r.Equipment = strings.TrimSpace(r.Equipment)
	if r.Equipment == "" {
		r.Equipment = EquipmentOther
	}
}

type FavoriteResponse struct {
	IsFavorite bool `json:"isFavorite"`
}
