package services

import (
	"context"

	"fittrack/models"

	"gorm.io/gorm"
)

type ScheduleInput struct {
	Task string `json:"task" binding:"required,max=200"`
	Date string `json:"date" binding:"required"`
	Time string `json:"time" binding:"required,clocktime"`
}

type SchedulePatch struct {
	Task      *string `json:"task" binding:"omitempty,min=1,max=200"`
	Date      *string `json:"date"`
	Time      *string `json:"time" binding:"omitempty,clocktime"`
	Completed *bool   `json:"completed"`
}

func (p SchedulePatch) fields() (map[string]any, error) {
	m := map[string]any{}
	if p.Task != nil {
		m["task"] = *p.Task
	}
	if p.Time != nil {
		m["time"] = *p.Time
	}
	if p.Completed != nil {
		m["completed"] = *p.Completed
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

type ScheduleService struct {
	db *gorm.DB
}

func NewScheduleService(db *gorm.DB) *ScheduleService {
	return &ScheduleService{db: db}
}

func (s *ScheduleService) Create(ctx context.Context, userID uint, in ScheduleInput) (*models.Schedule, error) {
	date, err := parseDate(in.Date)
	if err != nil {
		return nil, err
	}
	item := models.Schedule{UserID: userID, Task: in.Task, Date: date, Time: in.Time}
	if err := s.db.WithContext(ctx).Create(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// List returns the user's schedule in calendar order.
func (s *ScheduleService) List(ctx context.Context, userID uint) ([]models.Schedule, error) {
	out := []models.Schedule{}
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date ASC, time ASC, id ASC").
		Find(&out).Error
	return out, err
}

func (s *ScheduleService) Update(ctx context.Context, userID, id uint, patch SchedulePatch) (*models.Schedule, error) {
	fields, err := patch.fields()
	if err != nil {
		return nil, err
	}
	if err := updateOwned(ctx, s.db, &models.Schedule{}, id, userID, fields); err != nil {
		return nil, err
	}
	var item models.Schedule
	if err := getOwned(ctx, s.db, &item, id, userID); err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *ScheduleService) Delete(ctx context.Context, userID, id uint) error {
	return deleteOwned(ctx, s.db, &models.Schedule{}, id, userID)
}
