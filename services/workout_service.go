package services

import (
	"context"

	"fittrack/models"

	"gorm.io/gorm"
)

type WorkoutInput struct {
	Exercise string  `json:"exercise" binding:"required,max=100"`
	Sets     int     `json:"sets" binding:"required,min=1"`
	Reps     int     `json:"reps" binding:"required,min=1"`
	Weight   float64 `json:"weight" binding:"min=0"`
	Calories float64 `json:"calories" binding:"min=0"`
	Date     string  `json:"date" binding:"required"`
}

type WorkoutPatch struct {
	Exercise *string  `json:"exercise" binding:"omitempty,min=1,max=100"`
	Sets     *int     `json:"sets" binding:"omitempty,min=1"`
	Reps     *int     `json:"reps" binding:"omitempty,min=1"`
	Weight   *float64 `json:"weight" binding:"omitempty,min=0"`
	Calories *float64 `json:"calories" binding:"omitempty,min=0"`
	Date     *string  `json:"date"`
}

func (p WorkoutPatch) fields() (map[string]any, error) {
	m := map[string]any{}
	if p.Exercise != nil {
		m["exercise"] = *p.Exercise
	}
	if p.Sets != nil {
		m["sets"] = *p.Sets
	}
	if p.Reps != nil {
		m["reps"] = *p.Reps
	}
	if p.Weight != nil {
		m["weight"] = *p.Weight
	}
	if p.Calories != nil {
		m["calories"] = *p.Calories
	}
	if p.Date != nil {
		d, err := parseDate(*p.Date)
		if err != nil {
			return nil, err
		}
		m["date"] = d
	}
	return m, nil
}

type WorkoutService struct {
	db *gorm.DB
}

func NewWorkoutService(db *gorm.DB) *WorkoutService {
	return &WorkoutService{db: db}
}

func (s *WorkoutService) Create(ctx context.Context, userID uint, in WorkoutInput) (*models.Workout, error) {
	date, err := parseDate(in.Date)
	if err != nil {
		return nil, err
	}
	w := models.Workout{
		UserID:   userID,
		Exercise: in.Exercise,
		Sets:     in.Sets,
		Reps:     in.Reps,
		Weight:   in.Weight,
		Calories: in.Calories,
		Date:     date,
	}
	if err := s.db.WithContext(ctx).Create(&w).Error; err != nil {
		return nil, err
	}
	return &w, nil
}

// List returns the user's workouts, newest day first.
func (s *WorkoutService) List(ctx context.Context, userID uint) ([]models.Workout, error) {
	out := []models.Workout{}
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date DESC, id DESC").
		Find(&out).Error
	return out, err
}

func (s *WorkoutService) Update(ctx context.Context, userID, id uint, patch WorkoutPatch) (*models.Workout, error) {
	fields, err := patch.fields()
	if err != nil {
		return nil, err
	}
	if err := updateOwned(ctx, s.db, &models.Workout{}, id, userID, fields); err != nil {
		return nil, err
	}
	var w models.Workout
	if err := getOwned(ctx, s.db, &w, id, userID); err != nil {
		return nil, err
	}
	return &w, nil
}

func (s *WorkoutService) Delete(ctx context.Context, userID, id uint) error {
	return deleteOwned(ctx, s.db, &models.Workout{}, id, userID)
}
