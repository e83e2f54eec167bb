package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"fittrack/models"
	"fittrack/utils"

	"gorm.io/gorm"
)

type ReportService struct{ db *gorm.DB }

func NewReportService(db *gorm.DB) *ReportService { return &ReportService{db: db} }

type CalorieTotals struct {
	Eaten  float64 `json:"eaten"`
	Burned float64 `json:"burned"`
}

type MacroTotals struct {
	Protein float64 `json:"protein"`
	Carbs   float64 `json:"carbs"`
	Fats    float64 `json:"fats"`
}

type DailyReport struct {
	Date     string        `json:"date"`
	Calories CalorieTotals `json:"calories"`
	Macros   MacroTotals   `json:"macros"`
}

type Totals struct {
	Eaten   float64 `json:"eaten"`
	Burned  float64 `json:"burned"`
	Protein float64 `json:"protein"`
	Carbs   float64 `json:"carbs"`
	Fats    float64 `json:"fats"`
}

// RangeReport covers the half-open interval [From, To).
type RangeReport struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Totals Totals `json:"totals"`
}

type ProgressPoint struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// dayFilter is either an exact day or a half-open range.
type dayFilter struct {
	from, to time.Time
	exact    bool
}

func (f dayFilter) apply(q *gorm.DB) *gorm.DB {
	if f.exact {
		return q.Where("date = ?", f.from)
	}
	return q.Where("date >= ? AND date < ?", f.from, f.to)
}

type dietSums struct {
	Calories float64
	Protein  float64
	Carbs    float64
	Fats     float64
}

func (s *ReportService) totals(ctx context.Context, userID uint, f dayFilter) (Totals, error) {
	var diet dietSums
	err := f.apply(s.db.WithContext(ctx).Model(&models.Diet{}).Where("user_id = ?", userID)).
		Select("COALESCE(SUM(calories), 0) AS calories, COALESCE(SUM(protein), 0) AS protein, " +
			"COALESCE(SUM(carbs), 0) AS carbs, COALESCE(SUM(fats), 0) AS fats").
		Scan(&diet).Error
	if err != nil {
		return Totals{}, err
	}

	var burned float64
	err = f.apply(s.db.WithContext(ctx).Model(&models.Workout{}).Where("user_id = ?", userID)).
		Select("COALESCE(SUM(calories), 0)").
		Scan(&burned).Error
	if err != nil {
		return Totals{}, err
	}

	return Totals{
		Eaten:   diet.Calories,
		Burned:  burned,
		Protein: diet.Protein,
		Carbs:   diet.Carbs,
		Fats:    diet.Fats,
	}, nil
}

// Daily sums the rows logged exactly on date (YYYY-MM-DD).
func (s *ReportService) Daily(ctx context.Context, userID uint, date string) (*DailyReport, error) {
	day, err := utils.ParseDay(date)
	if err != nil {
		return nil, ErrInvalidDate
	}
	return s.daily(ctx, userID, day)
}

func (s *ReportService) daily(ctx context.Context, userID uint, day time.Time) (*DailyReport, error) {
	t, err := s.totals(ctx, userID, dayFilter{from: day, exact: true})
	if err != nil {
		return nil, err
	}
	return &DailyReport{
		Date:     utils.DayKey(day),
		Calories: CalorieTotals{Eaten: t.Eaten, Burned: t.Burned},
		Macros:   MacroTotals{Protein: t.Protein, Carbs: t.Carbs, Fats: t.Fats},
	}, nil
}

// Dashboard is the daily report for the calendar day of now.
func (s *ReportService) Dashboard(ctx context.Context, userID uint, now time.Time) (*DailyReport, error) {
	return s.daily(ctx, userID, utils.DayStart(now))
}

// Weekly covers [start, start+7 days).
func (s *ReportService) Weekly(ctx context.Context, userID uint, start string) (*RangeReport, error) {
	from, err := utils.ParseDay(start)
	if err != nil {
		return nil, ErrInvalidDate
	}
	return s.rangeReport(ctx, userID, from, from.AddDate(0, 0, 7))
}

// Monthly covers [first of month, first of next month) for month YYYY-MM.
func (s *ReportService) Monthly(ctx context.Context, userID uint, month string) (*RangeReport, error) {
	from, to, err := utils.ParseMonth(month)
	if err != nil {
		return nil, ErrInvalidDate
	}
	return s.rangeReport(ctx, userID, from, to)
}

func (s *ReportService) rangeReport(ctx context.Context, userID uint, from, to time.Time) (*RangeReport, error) {
	t, err := s.totals(ctx, userID, dayFilter{from: from, to: to})
	if err != nil {
		return nil, err
	}
	return &RangeReport{From: utils.DayKey(from), To: utils.DayKey(to), Totals: t}, nil
}

// ActivityHeatmap maps each day with at least one workout to the sum of
// sets*reps logged that day. Days without workouts are absent.
func (s *ReportService) ActivityHeatmap(ctx context.Context, userID uint) (map[string]int, error) {
	var rows []models.Workout
	if err := s.db.WithContext(ctx).
		Select("date", "sets", "reps").
		Where("user_id = ?", userID).
		Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make(map[string]int)
	for _, w := range rows {
		out[utils.DayKey(w.Date)] += w.Sets * w.Reps
	}
	return out, nil
}

// ExerciseProgress returns one point per day for the exercise, ascending by
// date. When several sets are logged on one day the day's value is the
// maximum of the metric.
func (s *ReportService) ExerciseProgress(ctx context.Context, userID uint, exercise, metric string) ([]ProgressPoint, error) {
	exercise = strings.TrimSpace(exercise)
	if exercise == "" {
		return nil, InvalidInput("exercise is required")
	}
	var pick func(models.Workout) float64
	switch metric {
	case "weight":
		pick = func(w models.Workout) float64 { return w.Weight }
	case "reps":
		pick = func(w models.Workout) float64 { return float64(w.Reps) }
	default:
		return nil, ErrInvalidMetric
	}

	var rows []models.Workout
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND exercise = ?", userID, exercise).
		Order("date ASC, id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	out := []ProgressPoint{}
	for _, w := range rows {
		key := utils.DayKey(w.Date)
		v := pick(w)
		if n := len(out); n > 0 && out[n-1].Date == key {
			if v > out[n-1].Value {
				out[n-1].Value = v
			}
			continue
		}
		out = append(out, ProgressPoint{Date: key, Value: v})
	}
	return out, nil
}

// Exercises lists the distinct exercise names the user has logged.
func (s *ReportService) Exercises(ctx context.Context, userID uint) ([]string, error) {
	names := []string{}
	if err := s.db.WithContext(ctx).
		Model(&models.Workout{}).
		Where("user_id = ?", userID).
		Distinct().
		Pluck("exercise", &names).Error; err != nil {
		return nil, err
	}
	sort.Strings(names)
	return names, nil
}
