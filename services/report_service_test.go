package services

import (
	"context"
	"testing"
	"time"

	"fittrack/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedDiet(t *testing.T, db *gorm.DB, userID uint, date string, cal, protein, carbs, fats float64) {
	t.Helper()
	require.NoError(t, db.Create(&models.Diet{
		UserID: userID, Food: "meal", Calories: cal, Protein: protein, Carbs: carbs, Fats: fats, Date: day(date),
	}).Error)
}

func seedWorkout(t *testing.T, db *gorm.DB, userID uint, date, exercise string, sets, reps int, weight, cal float64) {
	t.Helper()
	require.NoError(t, db.Create(&models.Workout{
		UserID: userID, Exercise: exercise, Sets: sets, Reps: reps, Weight: weight, Calories: cal, Date: day(date),
	}).Error)
}

func TestDaily_ExactDayOnly(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	svc := NewReportService(db)
	u := createUser(t, db, "alice", false)
	other := createUser(t, db, "bob", false)

	seedDiet(t, db, u.ID, "2024-06-01", 500, 30, 50, 10)
	seedDiet(t, db, u.ID, "2024-06-01", 250, 20, 10, 5)
	seedDiet(t, db, other.ID, "2024-06-01", 9999, 0, 0, 0)
	seedWorkout(t, db, u.ID, "2024-06-01", "squat", 3, 10, 100, 200)

	rep, err := svc.Daily(ctx, u.ID, "2024-06-01")
	require.NoError(t, err)
	assert.Equal(t, "2024-06-01", rep.Date)
	assert.Equal(t, CalorieTotals{Eaten: 750, Burned: 200}, rep.Calories)
	assert.Equal(t, MacroTotals{Protein: 50, Carbs: 60, Fats: 15}, rep.Macros)

	next, err := svc.Daily(ctx, u.ID, "2024-06-02")
	require.NoError(t, err)
	assert.Equal(t, CalorieTotals{}, next.Calories)
	assert.Equal(t, MacroTotals{}, next.Macros)

	_, err = svc.Daily(ctx, u.ID, "yesterday")
	assert.ErrorIs(t, err, ErrInvalidDate)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestDashboard_UsesCalendarDayOfNow(t *testing.T) {
	db := newTestDB(t)
	svc := NewReportService(db)
	u := createUser(t, db, "alice", false)
	seedDiet(t, db, u.ID, "2024-06-01", 400, 1, 2, 3)

	rep, err := svc.Dashboard(context.Background(), u.ID, time.Date(2024, 6, 1, 18, 30, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 400.0, rep.Calories.Eaten)
}

func TestWeekly_HalfOpenRange(t *testing.T) {
	db := newTestDB(t)
	svc := NewReportService(db)
	u := createUser(t, db, "alice", false)

	seedDiet(t, db, u.ID, "2024-05-31", 1, 0, 0, 0)
	seedDiet(t, db, u.ID, "2024-06-03", 100, 10, 0, 0)
	seedDiet(t, db, u.ID, "2024-06-09", 200, 0, 20, 0)
	seedDiet(t, db, u.ID, "2024-06-10", 400, 0, 0, 40)
	seedWorkout(t, db, u.ID, "2024-06-05", "run", 1, 1, 0, 300)

	rep, err := svc.Weekly(context.Background(), u.ID, "2024-06-03")
	require.NoError(t, err)
	assert.Equal(t, "2024-06-03", rep.From)
	assert.Equal(t, "2024-06-10", rep.To)
	assert.Equal(t, Totals{Eaten: 300, Burned: 300, Protein: 10, Carbs: 20}, rep.Totals)
}

func TestMonthly(t *testing.T) {
	db := newTestDB(t)
	svc := NewReportService(db)
	u := createUser(t, db, "alice", false)

	seedDiet(t, db, u.ID, "2024-02-01", 100, 0, 0, 0)
	seedDiet(t, db, u.ID, "2024-02-29", 50, 0, 0, 0)
	seedDiet(t, db, u.ID, "2024-03-01", 1000, 0, 0, 0)

	rep, err := svc.Monthly(context.Background(), u.ID, "2024-02")
	require.NoError(t, err)
	assert.Equal(t, 150.0, rep.Totals.Eaten)
	assert.Equal(t, "2024-03-01", rep.To)

	_, err = svc.Monthly(context.Background(), u.ID, "2024-13")
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestActivityHeatmap_SparseSetsTimesReps(t *testing.T) {
	db := newTestDB(t)
	svc := NewReportService(db)
	u := createUser(t, db, "alice", false)

	seedWorkout(t, db, u.ID, "2024-06-01", "squat", 3, 10, 0, 0)
	seedWorkout(t, db, u.ID, "2024-06-01", "bench", 2, 8, 0, 0)
	seedWorkout(t, db, u.ID, "2024-06-03", "row", 1, 5, 0, 0)

	hm, err := svc.ActivityHeatmap(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"2024-06-01": 46, "2024-06-03": 5}, hm)
	assert.NotContains(t, hm, "2024-06-02")
}

func TestExerciseProgress(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	svc := NewReportService(db)
	u := createUser(t, db, "alice", false)

	seedWorkout(t, db, u.ID, "2024-06-02", "squat", 3, 5, 110, 0)
	seedWorkout(t, db, u.ID, "2024-06-01", "squat", 3, 8, 100, 0)
	seedWorkout(t, db, u.ID, "2024-06-01", "squat", 1, 12, 90, 0)
	seedWorkout(t, db, u.ID, "2024-06-01", "bench", 3, 8, 60, 0)

	weight, err := svc.ExerciseProgress(ctx, u.ID, "squat", "weight")
	require.NoError(t, err)
	assert.Equal(t, []ProgressPoint{{Date: "2024-06-01", Value: 100}, {Date: "2024-06-02", Value: 110}}, weight)

	reps, err := svc.ExerciseProgress(ctx, u.ID, "squat", "reps")
	require.NoError(t, err)
	assert.Equal(t, []ProgressPoint{{Date: "2024-06-01", Value: 12}, {Date: "2024-06-02", Value: 5}}, reps)

	_, err = svc.ExerciseProgress(ctx, u.ID, "squat", "volume")
	assert.ErrorIs(t, err, ErrInvalidMetric)
	_, err = svc.ExerciseProgress(ctx, u.ID, " ", "weight")
	assert.ErrorIs(t, err, ErrInvalidInput)

	none, err := svc.ExerciseProgress(ctx, u.ID, "deadlift", "weight")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestExercises_DistinctSorted(t *testing.T) {
	db := newTestDB(t)
	svc := NewReportService(db)
	u := createUser(t, db, "alice", false)
	other := createUser(t, db, "bob", false)

	seedWorkout(t, db, u.ID, "2024-06-01", "squat", 1, 1, 0, 0)
	seedWorkout(t, db, u.ID, "2024-06-02", "squat", 1, 1, 0, 0)
	seedWorkout(t, db, u.ID, "2024-06-02", "bench", 1, 1, 0, 0)
	seedWorkout(t, db, other.ID, "2024-06-02", "curl", 1, 1, 0, 0)

	names, err := svc.Exercises(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"bench", "squat"}, names)
}
