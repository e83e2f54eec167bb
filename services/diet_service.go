package services

import (
	"context"

	"fittrack/models"

	"gorm.io/gorm"
)

type DietInput struct {
	Food     string  `json:"food" binding:"required,max=100"`
	Calories float64 `json:"calories" binding:"min=0"`
	Protein  float64 `json:"protein" binding:"min=0"`
	Carbs    float64 `json:"carbs" binding:"min=0"`
	Fats     float64 `json:"fats" binding:"min=0"`
	Time     string  `json:"time" binding:"omitempty,clocktime"`
	Date     string  `json:"date" binding:"required"`
}

type DietPatch struct {
	Food     *string  `json:"food" binding:"omitempty,min=1,max=100"`
	Calories *float64 `json:"calories" binding:"omitempty,min=0"`
	Protein  *float64 `json:"protein" binding:"omitempty,min=0"`
	Carbs    *float64 `json:"carbs" binding:"omitempty,min=0"`
	Fats     *float64 `json:"fats" binding:"omitempty,min=0"`
	Time     *string  `json:"time" binding:"omitempty,clocktime"`
	Date     *string  `json:"date"`
}

func (p DietPatch) fields() (map[string]any, error) {
	m := map[string]any{}
	if p.Food != nil {
		m["food"] = *p.Food
	}
	if p.Calories != nil {
		m["calories"] = *p.Calories
	}
	if p.Protein != nil {
		m["protein"] = *p.Protein
	}
	if p.Carbs != nil {
		m["carbs"] = *p.Carbs
	}
	if p.Fats != nil {
		m["fats"] = *p.Fats
	}
	if p.Time != nil {
		m["time"] = *p.Time
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

type DietService struct {
	db *gorm.DB
}

func NewDietService(db *gorm.DB) *DietService {
	return &DietService{db: db}
}

func (s *DietService) Create(ctx context.Context, userID uint, in DietInput) (*models.Diet, error) {
	date, err := parseDate(in.Date)
	if err != nil {
		return nil, err
	}
	d := models.Diet{
		UserID:   userID,
		Food:     in.Food,
		Calories: in.Calories,
		Protein:  in.Protein,
		Carbs:    in.Carbs,
		Fats:     in.Fats,
		Time:     in.Time,
		Date:     date,
	}
	if err := s.db.WithContext(ctx).Create(&d).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *DietService) List(ctx context.Context, userID uint) ([]models.Diet, error) {
	out := []models.Diet{}
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date DESC, time DESC, id DESC").
		Find(&out).Error
	return out, err
}

func (s *DietService) Update(ctx context.Context, userID, id uint, patch DietPatch) (*models.Diet, error) {
	fields, err := patch.fields()
	if err != nil {
		return nil, err
	}
	if err := updateOwned(ctx, s.db, &models.Diet{}, id, userID, fields); err != nil {
		return nil, err
	}
	var d models.Diet
	if err := getOwned(ctx, s.db, &d, id, userID); err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *DietService) Delete(ctx context.Context, userID, id uint) error {
	return deleteOwned(ctx, s.db, &models.Diet{}, id, userID)
}
