//go:build integration_test || all_tests

package internal_test

import (
	"context"
	"encoding/csv"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2beens/liftlog/internal/gymstats/exercises"
	"github.com/2beens/liftlog/internal/gymstats/stats"
	"github.com/2beens/liftlog/internal/gymstats/templates"
	"github.com/2beens/liftlog/internal/gymstats/workouts"
	"github.com/2beens/liftlog/internal/users"
)

func exerciseByName(items []exercises.ListItem, name string) exercises.ListItem {
	for _, item := range items {
		if item.Name == name {
			return item
		}
	}
	return exercises.ListItem{}
}

func (s *IntegrationTestSuite) TestAuthFlow() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	email := gofakeit.Email()
	signed := s.signup(ctx, strings.ToUpper(email))
	assert.Equal(t, strings.ToLower(email), signed.User.Email)

	// duplicate email is a field error
	resp := s.doRequest(ctx, http.MethodPost, "/auth/signup", "", users.SignupRequest{
		Email:    email,
		Name:     "Other",
		Password: "another-password",
	})
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var loginResp users.TokenResponse
	s.doJSON(ctx, http.MethodPost, "/auth/login", "", users.LoginRequest{
		Email:    email,
		Password: "squat-every-day",
	}, http.StatusOK, &loginResp)
	require.NotEmpty(t, loginResp.Token)
	assert.NotEqual(t, signed.Token, loginResp.Token)

	var profile users.Profile
	s.doJSON(ctx, http.MethodGet, "/auth/me", loginResp.Token, nil, http.StatusOK, &profile)
	assert.Equal(t, signed.User.ID, profile.ID)
	assert.Empty(t, profile.Preferences.FavoriteExercises)

	s.doJSON(ctx, http.MethodPost, "/auth/logout", loginResp.Token, nil, http.StatusOK, nil)
	s.doJSON(ctx, http.MethodGet, "/auth/me", loginResp.Token, nil, http.StatusUnauthorized, nil)

	// the signup session is still alive
	s.doJSON(ctx, http.MethodGet, "/auth/me", signed.Token, nil, http.StatusOK, nil)
}

func (s *IntegrationTestSuite) TestExercisesAndFavorites() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	owner := s.signup(ctx, gofakeit.Email())
	other := s.signup(ctx, gofakeit.Email())

	var list []exercises.ListItem
	s.doJSON(ctx, http.MethodGet, "/exercises", owner.Token, nil, http.StatusOK, &list)
	require.Len(t, list, len(exercises.DefaultCatalog()))

	var custom exercises.Exercise
	s.doJSON(ctx, http.MethodPost, "/exercises", owner.Token, exercises.CreateRequest{
		Name:        "Zercher Squat",
		Category:    exercises.CategoryLegs,
		MuscleGroup: "Quadriceps",
	}, http.StatusCreated, &custom)
	assert.True(t, custom.IsCustom)
	assert.Equal(t, exercises.EquipmentOther, custom.Equipment)

	s.doJSON(ctx, http.MethodGet, "/exercises", owner.Token, nil, http.StatusOK, &list)
	assert.Len(t, list, len(exercises.DefaultCatalog())+1)

	// custom exercises are private to their owner
	s.doJSON(ctx, http.MethodGet, "/exercises", other.Token, nil, http.StatusOK, &list)
	assert.Len(t, list, len(exercises.DefaultCatalog()))
	s.doJSON(ctx, http.MethodPatch, "/exercises/"+custom.ID+"/favorite", other.Token, nil, http.StatusNotFound, nil)

	bench := exerciseByName(list, "Bench Press")
	require.NotEmpty(t, bench.ID)

	var fav exercises.FavoriteResponse
	s.doJSON(ctx, http.MethodPatch, "/exercises/"+bench.ID+"/favorite", owner.Token, nil, http.StatusOK, &fav)
	assert.True(t, fav.IsFavorite)

	var profile users.Profile
	s.doJSON(ctx, http.MethodGet, "/auth/me", owner.Token, nil, http.StatusOK, &profile)
	assert.Equal(t, []string{bench.ID}, profile.Preferences.FavoriteExercises)

	s.doJSON(ctx, http.MethodPatch, "/exercises/"+bench.ID+"/favorite", owner.Token, nil, http.StatusOK, &fav)
	assert.False(t, fav.IsFavorite)

	s.doJSON(ctx, http.MethodGet, "/auth/me", owner.Token, nil, http.StatusOK, &profile)
	assert.Empty(t, profile.Preferences.FavoriteExercises)
}

func (s *IntegrationTestSuite) TestWorkoutsAndStats() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	user := s.signup(ctx, gofakeit.Email())
	stranger := s.signup(ctx, gofakeit.Email())

	var list []exercises.ListItem
	s.doJSON(ctx, http.MethodGet, "/exercises", user.Token, nil, http.StatusOK, &list)
	bench := exerciseByName(list, "Bench Press")
	squat := exerciseByName(list, "Squat")
	require.NotEmpty(t, bench.ID)
	require.NotEmpty(t, squat.ID)

	now := time.Now().UTC()
	earlier := now.AddDate(0, 0, -8)

	var first workouts.View
	s.doJSON(ctx, http.MethodPost, "/workouts", user.Token, workouts.Request{
		Date: &earlier,
		Sets: []workouts.Set{
			{ExerciseID: bench.ID, Weight: 100, Reps: 10},
			{ExerciseID: squat.ID, Weight: 140, Reps: 5},
		},
		Notes: gofakeit.Sentence(6),
	}, http.StatusCreated, &first)
	assert.Equal(t, 1700.0, first.TotalVolume)
	require.Len(t, first.Sets, 2)
	require.NotNil(t, first.Sets[0].Exercise)
	assert.Equal(t, "Bench Press", first.Sets[0].Exercise.Name)

	var second workouts.View
	s.doJSON(ctx, http.MethodPost, "/workouts", user.Token, workouts.Request{
		Date: &now,
		Sets: []workouts.Set{
			{ExerciseID: bench.ID, Weight: 105, Reps: 8},
		},
	}, http.StatusCreated, &second)

	// unknown exercise reference
	s.doJSON(ctx, http.MethodPost, "/workouts", user.Token, workouts.Request{
		Sets: []workouts.Set{{ExerciseID: gofakeit.UUID(), Weight: 10, Reps: 1}},
	}, http.StatusBadRequest, nil)

	var listResp workouts.ListResponse
	s.doJSON(ctx, http.MethodGet, "/workouts?limit=1", user.Token, nil, http.StatusOK, &listResp)
	assert.Equal(t, 2, listResp.Total)
	require.Len(t, listResp.Workouts, 1)
	assert.Equal(t, second.ID, listResp.Workouts[0].ID)

	// workouts are scoped to their owner
	s.doJSON(ctx, http.MethodGet, "/workouts/"+first.ID, stranger.Token, nil, http.StatusNotFound, nil)

	var volume map[string]float64
	s.doJSON(ctx, http.MethodGet, "/stats/volume?weeks=4", user.Token, nil, http.StatusOK, &volume)
	assert.Equal(t, 1700.0, volume[stats.WeekKey(earlier)])
	assert.Equal(t, 840.0, volume[stats.WeekKey(now)])

	var records map[string]stats.PersonalRecord
	s.doJSON(ctx, http.MethodGet, "/stats/pr", user.Token, nil, http.StatusOK, &records)
	require.Contains(t, records, "Bench Press")
	assert.Equal(t, 133.0, records["Bench Press"].Estimated1RM)
	assert.Equal(t, 100.0, records["Bench Press"].Weight)
	assert.Equal(t, 163.0, records["Squat"].Estimated1RM)

	resp := s.doRequest(ctx, http.MethodGet, "/workouts/export", user.Token, nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "attachment")
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	rows, err := csv.NewReader(strings.NewReader(string(body))).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "Bench Press", rows[1][1])
	assert.Equal(t, "1700", rows[1][6])

	var deleted workouts.DeleteResponse
	s.doJSON(ctx, http.MethodDelete, "/workouts/"+first.ID, user.Token, nil, http.StatusOK, &deleted)
	assert.Equal(t, first.ID, deleted.DeletedID)
	s.doJSON(ctx, http.MethodGet, "/workouts/"+first.ID, user.Token, nil, http.StatusNotFound, nil)
}

func (s *IntegrationTestSuite) TestTemplatesLifecycle() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	user := s.signup(ctx, gofakeit.Email())

	var list []exercises.ListItem
	s.doJSON(ctx, http.MethodGet, "/exercises", user.Token, nil, http.StatusOK, &list)
	deadlift := exerciseByName(list, "Deadlift")
	require.NotEmpty(t, deadlift.ID)

	weight := 180.0
	var created templates.View
	s.doJSON(ctx, http.MethodPost, "/templates", user.Token, templates.Request{
		Name: "Pull day",
		Exercises: []templates.Entry{
			{ExerciseID: deadlift.ID, Sets: 2, Reps: 5, Weight: &weight},
			{ExerciseID: deadlift.ID},
		},
	}, http.StatusCreated, &created)
	assert.True(t, created.IsActive)
	require.Len(t, created.Exercises, 2)
	assert.Equal(t, templates.DefaultEntrySets, created.Exercises[1].Sets)

	var used templates.UseResponse
	s.doJSON(ctx, http.MethodPost, "/templates/"+created.ID+"/use", user.Token, nil, http.StatusOK, &used)
	require.Len(t, used.SuggestedSets, 5)
	assert.Equal(t, 180.0, used.SuggestedSets[0].Weight)
	assert.Equal(t, 0.0, used.SuggestedSets[4].Weight)
	assert.Equal(t, templates.DefaultEntryReps, used.SuggestedSets[4].Reps)

	var profile users.Profile
	s.doJSON(ctx, http.MethodGet, "/auth/me", user.Token, nil, http.StatusOK, &profile)
	require.NotNil(t, profile.Preferences.LastTemplate)
	assert.Equal(t, created.ID, *profile.Preferences.LastTemplate)

	var deleted templates.DeleteResponse
	s.doJSON(ctx, http.MethodDelete, "/templates/"+created.ID, user.Token, nil, http.StatusOK, &deleted)
	assert.Equal(t, created.ID, deleted.DeletedID)

	var active []templates.View
	s.doJSON(ctx, http.MethodGet, "/templates", user.Token, nil, http.StatusOK, &active)
	assert.Empty(t, active)

	var inactive templates.View
	s.doJSON(ctx, http.MethodGet, "/templates/"+created.ID, user.Token, nil, http.StatusOK, &inactive)
	assert.False(t, inactive.IsActive)

	s.doJSON(ctx, http.MethodPost, "/templates/"+created.ID+"/use", user.Token, nil, http.StatusNotFound, nil)
	s.doJSON(ctx, http.MethodDelete, "/templates/"+created.ID, user.Token, nil, http.StatusNotFound, nil)
	s.doJSON(ctx, http.MethodPut, "/templates/"+created.ID, user.Token, templates.Request{
		Name:      "Pull day v2",
		Exercises: []templates.Entry{{ExerciseID: deadlift.ID}},
	}, http.StatusNotFound, nil)
}

func (s *IntegrationTestSuite) TestUnauthenticated() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s.doJSON(ctx, http.MethodGet, "/workouts", "", nil, http.StatusUnauthorized, nil)
	s.doJSON(ctx, http.MethodGet, "/stats/pr", "not-a-session", nil, http.StatusUnauthorized, nil)

	resp := s.doRequest(ctx, http.MethodGet, "/", "", nil)
	defer resp.Body.Close()
	assert.Equal(s.T(), http.StatusOK, resp.StatusCode)
}
