package services

import (
	"context"
	"time"

	"fittrack/utils"

	"gorm.io/gorm"
)

// updateOwned applies fields to the row id only if it belongs to userID.
// The filter and the write are one statement, so a foreign id matches zero
// rows instead of racing an ownership check.
func updateOwned(ctx context.Context, db *gorm.DB, model any, id, userID uint, fields map[string]any) error {
	q := db.WithContext(ctx).Model(model).Where("id = ? AND user_id = ?", id, userID)
	if len(fields) == 0 {
		var n int64
		if err := q.Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return ErrRecordNotFound
		}
		return nil
	}
	res := q.Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

func deleteOwned(ctx context.Context, db *gorm.DB, model any, id, userID uint) error {
	res := db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(model)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

func getOwned(ctx context.Context, db *gorm.DB, dest any, id, userID uint) error {
	err := db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(dest).Error
	if isNotFound(err) {
		return ErrRecordNotFound
	}
	return err
}

// parseDate normalises an incoming date string to midnight UTC.
func parseDate(s string) (time.Time, error) {
	d, err := utils.ParseDay(s)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return d, nil
}
