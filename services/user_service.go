package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"fittrack/models"
	"fittrack/utils"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	MaxImageBytes     = 2 << 20
	searchMinQueryLen = 2
	searchLimit       = 10
)

// ObjectStore holds uploaded binaries.
type ObjectStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}

// ImageModerator returns the labels that make an image unacceptable.
type ImageModerator interface {
	Check(ctx context.Context, image []byte) ([]string, error)
}

type ProfileView struct {
	ID              uint       `json:"id"`
	Email           string     `json:"email"`
	Username        *string    `json:"username"`
	IsPrivate       bool       `json:"isPrivate"`
	CreatedAt       time.Time  `json:"createdAt"`
	FirstName       string     `json:"firstName"`
	LastName        string     `json:"lastName"`
	Age             *int       `json:"age"`
	Gender          string     `json:"gender"`
	Height          float64    `json:"height"`
	Weight          float64    `json:"weight"`
	Goal            string     `json:"goal"`
	Bio             string     `json:"bio"`
	ImageURL        string     `json:"imageUrl"`
	BMI             *utils.BMI `json:"bmi,omitempty"`
	Followers       int64      `json:"followers"`
	Following       int64      `json:"following"`
	ProfileComplete bool       `json:"profileComplete"`
	IsFollowing     *bool      `json:"isFollowing,omitempty"`
}

// ProfilePatch carries a partial update. Nil fields are left untouched.
// Email is accepted on the wire but never applied: it belongs to the
// identity record.
type ProfilePatch struct {
	Email     *string  `json:"email"`
	FirstName *string  `json:"firstName" binding:"omitempty,max=50"`
	LastName  *string  `json:"lastName" binding:"omitempty,max=50"`
	Age       *int     `json:"age" binding:"omitempty,min=1,max=120"`
	Gender    *string  `json:"gender" binding:"omitempty,max=20"`
	Height    *float64 `json:"height" binding:"omitempty,min=0"`
	Weight    *float64 `json:"weight" binding:"omitempty,min=0"`
	Goal      *string  `json:"goal" binding:"omitempty,max=100"`
	Bio       *string  `json:"bio" binding:"omitempty,max=500"`
}

func (p ProfilePatch) fields() map[string]any {
	m := map[string]any{}
	if p.FirstName != nil {
		m["first_name"] = *p.FirstName
	}
	if p.LastName != nil {
		m["last_name"] = *p.LastName
	}
	if p.Age != nil {
		m["age"] = *p.Age
	}
	if p.Gender != nil {
		m["gender"] = *p.Gender
	}
	if p.Height != nil {
		m["height"] = *p.Height
	}
	if p.Weight != nil {
		m["weight"] = *p.Weight
	}
	if p.Goal != nil {
		m["goal"] = *p.Goal
	}
	if p.Bio != nil {
		m["bio"] = *p.Bio
	}
	return m
}

type ImageUpload struct {
	Filename string
	Data     []byte
}

type ImageResult struct {
	ImageURL string `json:"imageUrl"`
	Deleted  bool   `json:"deleted,omitempty"`
}

type ProfileService struct {
	db        *gorm.DB
	follows   *FollowService
	store     ObjectStore
	moderator ImageModerator
	effort    BestEffort
}

func NewProfileService(db *gorm.DB, follows *FollowService, store ObjectStore, moderator ImageModerator, log logrus.FieldLogger) *ProfileService {
	return &ProfileService{
		db:        db,
		follows:   follows,
		store:     store,
		moderator: moderator,
		effort:    BestEffort{Log: log},
	}
}

func (s *ProfileService) loadUser(ctx context.Context, where string, arg any) (*models.User, error) {
	var u models.User
	err := s.db.WithContext(ctx).Preload("Profile").Where(where, arg).First(&u).Error
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (s *ProfileService) compose(ctx context.Context, u *models.User) (*ProfileView, error) {
	counts, err := s.follows.countsFor(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	v := &ProfileView{
		ID:        u.ID,
		Email:     u.Email,
		Username:  u.Username,
		IsPrivate: u.IsPrivate,
		CreatedAt: u.CreatedAt,
		Followers: counts.Followers,
		Following: counts.Following,
	}
	if p := u.Profile; p != nil {
		v.FirstName, v.LastName, v.Age = p.FirstName, p.LastName, p.Age
		v.Gender, v.Height, v.Weight = p.Gender, p.Height, p.Weight
		v.Goal, v.Bio, v.ImageURL = p.Goal, p.Bio, p.ImageURL
		if bmi, ok := utils.ComputeBMI(p.Height, p.Weight); ok {
			v.BMI = &bmi
		}
	}
	v.ProfileComplete = v.FirstName != "" && v.LastName != "" && v.Age != nil
	return v, nil
}

// GetProfile returns nil, nil when the user does not exist.
func (s *ProfileService) GetProfile(ctx context.Context, userID uint) (*ProfileView, error) {
	u, err := s.loadUser(ctx, "id = ?", userID)
	if err != nil || u == nil {
		return nil, err
	}
	return s.compose(ctx, u)
}

func (s *ProfileService) GetProfileByUsername(ctx context.Context, username string, viewerID uint) (*ProfileView, error) {
	u, err := s.loadUser(ctx, "username = ?", strings.ToLower(username))
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	v, err := s.compose(ctx, u)
	if err != nil {
		return nil, err
	}
	following, err := s.follows.isFollowingID(ctx, viewerID, u.ID)
	if err != nil {
		return nil, err
	}
	v.IsFollowing = &following
	return v, nil
}

// UpdateProfile upserts the profile row: created on first write, otherwise
// only the fields present in patch change.
func (s *ProfileService) UpdateProfile(ctx context.Context, userID uint, patch ProfilePatch) (*models.Profile, error) {
	patch.Email = nil
	return s.upsertProfile(ctx, userID, patch.fields())
}

func (s *ProfileService) upsertProfile(ctx context.Context, userID uint, fields map[string]any) (*models.Profile, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Count(&n).Error; err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, ErrUserNotFound
	}

	var p models.Profile
	for attempt := 0; ; attempt++ {
		err := s.db.WithContext(ctx).Where(models.Profile{UserID: userID}).FirstOrCreate(&p).Error
		if err == nil {
			break
		}
		// lost a concurrent first write; the row exists now
		if isUniqueViolation(err) && attempt == 0 {
			p = models.Profile{}
			continue
		}
		return nil, err
	}
	if len(fields) > 0 {
		if err := s.db.WithContext(ctx).Model(&p).Updates(fields).Error; err != nil {
			return nil, err
		}
	}
	if err := s.db.WithContext(ctx).First(&p, p.ID).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// SearchUsers is a case-insensitive substring match on username. Queries
// shorter than two characters return nothing.
func (s *ProfileService) SearchUsers(ctx context.Context, query string) ([]UserSummary, error) {
	out := []UserSummary{}
	q := strings.ToLower(strings.TrimSpace(query))
	if len([]rune(q)) < searchMinQueryLen {
		return out, nil
	}
	pattern := "%" + escapeLike(q) + "%"
	err := s.db.WithContext(ctx).
		Model(&models.User{}).
		Select("id, username, email").
		Where(`LOWER(username) LIKE ? ESCAPE '\'`, pattern).
		Order("username ASC").
		Limit(searchLimit).
		Scan(&out).Error
	return out, err
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// UploadImage stores a new profile image and points the profile at it. A
// previous image is removed best-effort first.
func (s *ProfileService) UploadImage(ctx context.Context, userID uint, file ImageUpload) (*ImageResult, error) {
	if len(file.Data) == 0 {
		return nil, InvalidInput("File not received")
	}
	if len(file.Data) > MaxImageBytes {
		return nil, ErrFileTooLarge
	}
	contentType := http.DetectContentType(file.Data)
	if !strings.HasPrefix(contentType, "image/") {
		return nil, ErrNotAnImage
	}
	if s.store == nil {
		return nil, errors.New("image storage is not configured")
	}
	if s.moderator != nil {
		labels, err := s.moderator.Check(ctx, file.Data)
		if err != nil {
			return nil, err
		}
		if len(labels) > 0 {
			return nil, ErrImageRejected
		}
	}

	var current models.Profile
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&current).Error
	if err != nil && !isNotFound(err) {
		return nil, err
	}
	if current.ImageKey != "" {
		s.removeObject(ctx, userID, current.ImageKey)
	}

	key := fmt.Sprintf("profile/%d/%s%s", userID, uuid.NewString(), imageExt(file.Filename, contentType))
	url, err := s.store.Put(ctx, key, file.Data, contentType)
	if err != nil {
		return nil, err
	}
	if _, err := s.upsertProfile(ctx, userID, map[string]any{"image_url": url, "image_key": key}); err != nil {
		return nil, err
	}
	return &ImageResult{ImageURL: url}, nil
}

// DeleteImage clears the profile image. Without an image it is a no-op.
func (s *ProfileService) DeleteImage(ctx context.Context, userID uint) (*ImageResult, error) {
	var p models.Profile
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&p).Error
	if isNotFound(err) || (err == nil && p.ImageURL == "") {
		return &ImageResult{}, nil
	}
	if err != nil {
		return nil, err
	}

	if p.ImageKey != "" && s.store != nil {
		s.removeObject(ctx, userID, p.ImageKey)
	}
	if err := s.db.WithContext(ctx).Model(&p).
		Updates(map[string]any{"image_url": "", "image_key": ""}).Error; err != nil {
		return nil, err
	}
	return &ImageResult{Deleted: true}, nil
}

func (s *ProfileService) removeObject(ctx context.Context, userID uint, key string) {
	s.effort.Run(ctx, "profile.image.delete", logrus.Fields{"user_id": userID, "key": key}, func(ctx context.Context) error {
		return s.store.Delete(ctx, key)
	})
}

func imageExt(filename, contentType string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	}
	return strings.ToLower(filepath.Ext(filename))
}
