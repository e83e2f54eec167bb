package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"fittrack/models"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	StatusFollowing        = "following"
	StatusRequested        = "requested"
	StatusUnfollowed       = "unfollowed"
	StatusRequestCancelled = "request_cancelled"
	StatusAccepted         = "accepted"
	StatusRejected         = "rejected"
	StatusRemoved          = "removed"
)

type FollowResult struct {
	Status string `json:"status"`
}

type FollowCounts struct {
	Followers int64 `json:"followers"`
	Following int64 `json:"following"`
}

// UserSummary is the public identity of a counterpart in follow lists.
type UserSummary struct {
	ID       uint    `json:"id"`
	Username *string `json:"username"`
	Email    string  `json:"email"`
}

type RequesterProfile struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	ImageURL  string `json:"imageUrl"`
}

type Requester struct {
	UserSummary
	Profile *RequesterProfile `json:"profile"`
}

type FollowRequestView struct {
	ID        uint      `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	Requester Requester `json:"requester"`
}

// FollowService owns the follow graph: edges, pending requests towards
// private accounts and the transitions between them. The unique pair
// indexes on follows and follow_requests are the real race guard; the
// existence checks only pick the error message.
type FollowService struct {
	db       *gorm.DB
	cache    CountCache
	notifier Notifier
}

func NewFollowService(db *gorm.DB, cache CountCache, notifier Notifier) *FollowService {
	if cache == nil {
		cache = noCountCache{}
	}
	return &FollowService{db: db, cache: cache, notifier: notifier}
}

func (s *FollowService) findByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	err := s.db.WithContext(ctx).Where("username = ?", strings.ToLower(username)).First(&u).Error
	if err != nil {
		if isNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (s *FollowService) edgeExists(ctx context.Context, db *gorm.DB, followerID, followingID uint) (bool, error) {
	var n int64
	err := db.WithContext(ctx).Model(&models.Follow{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Count(&n).Error
	return n > 0, err
}

func (s *FollowService) requestExists(ctx context.Context, requesterID, targetID uint) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.FollowRequest{}).
		Where("requester_id = ? AND target_id = ?", requesterID, targetID).
		Count(&n).Error
	return n > 0, err
}

// Follow follows a public account directly or files a request towards a
// private one.
func (s *FollowService) Follow(ctx context.Context, actorID uint, username string) (*FollowResult, error) {
	target, err := s.findByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if target.ID == actorID {
		return nil, ErrCannotFollowSelf
	}

	following, err := s.edgeExists(ctx, s.db, actorID, target.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check follow relationship: %w", err)
	}
	if following {
		return nil, ErrAlreadyFollowing
	}

	if target.IsPrivate {
		return s.request(ctx, actorID, target)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&models.Follow{FollowerID: actorID, FollowingID: target.ID}).Error; err != nil {
			if isUniqueViolation(err) {
				return ErrAlreadyFollowing
			}
			return fmt.Errorf("failed to create follow relationship: %w", err)
		}
		// A request left over from when the target was private must not
		// coexist with the edge.
		return tx.Where("requester_id = ? AND target_id = ?", actorID, target.ID).
			Delete(&models.FollowRequest{}).Error
	})
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx, actorID, target.ID)
	followEvents.WithLabelValues("follow").Inc()
	s.notify(ctx, target.ID, actorID, models.NotificationNewFollower, "started following you")
	return &FollowResult{Status: StatusFollowing}, nil
}

func (s *FollowService) request(ctx context.Context, actorID uint, target *models.User) (*FollowResult, error) {
	sent, err := s.requestExists(ctx, actorID, target.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check follow request: %w", err)
	}
	if sent {
		return nil, ErrRequestAlreadySent
	}

	if err := s.db.WithContext(ctx).Create(&models.FollowRequest{RequesterID: actorID, TargetID: target.ID}).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrRequestAlreadySent
		}
		return nil, fmt.Errorf("failed to create follow request: %w", err)
	}

	followEvents.WithLabelValues("request").Inc()
	s.notify(ctx, target.ID, actorID, models.NotificationFollowRequest, "requested to follow you")
	return &FollowResult{Status: StatusRequested}, nil
}

// Unfollow removes the edge, or cancels a still-pending request.
func (s *FollowService) Unfollow(ctx context.Context, actorID uint, username string) (*FollowResult, error) {
	target, err := s.findByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	res := s.db.WithContext(ctx).
		Where("follower_id = ? AND following_id = ?", actorID, target.ID).
		Delete(&models.Follow{})
	if res.Error != nil {
		return nil, fmt.Errorf("failed to delete follow relationship: %w", res.Error)
	}
	if res.RowsAffected > 0 {
		s.cache.Invalidate(ctx, actorID, target.ID)
		followEvents.WithLabelValues("unfollow").Inc()
		return &FollowResult{Status: StatusUnfollowed}, nil
	}

	res = s.db.WithContext(ctx).
		Where("requester_id = ? AND target_id = ?", actorID, target.ID).
		Delete(&models.FollowRequest{})
	if res.Error != nil {
		return nil, fmt.Errorf("failed to cancel follow request: %w", res.Error)
	}
	if res.RowsAffected > 0 {
		followEvents.WithLabelValues("cancel").Inc()
		return &FollowResult{Status: StatusRequestCancelled}, nil
	}

	return nil, ErrNotFollowing
}

// IsFollowing is false, not an error, for unknown usernames.
func (s *FollowService) IsFollowing(ctx context.Context, actorID uint, username string) (bool, error) {
	target, err := s.findByUsername(ctx, username)
	if errors.Is(err, ErrUserNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return s.edgeExists(ctx, s.db, actorID, target.ID)
}

func (s *FollowService) isFollowingID(ctx context.Context, actorID, targetID uint) (bool, error) {
	return s.edgeExists(ctx, s.db, actorID, targetID)
}

func (s *FollowService) GetFollowers(ctx context.Context, username string) ([]UserSummary, error) {
	user, err := s.findByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return s.counterparts(ctx, "follows.follower_id", "follows.following_id", user.ID)
}

func (s *FollowService) GetFollowing(ctx context.Context, username string) ([]UserSummary, error) {
	user, err := s.findByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return s.counterparts(ctx, "follows.following_id", "follows.follower_id", user.ID)
}

// counterparts joins users on joinCol for every edge whose matchCol is userID.
func (s *FollowService) counterparts(ctx context.Context, joinCol, matchCol string, userID uint) ([]UserSummary, error) {
	out := []UserSummary{}
	err := s.db.WithContext(ctx).
		Table("users").
		Select("users.id, users.username, users.email").
		Joins("JOIN follows ON "+joinCol+" = users.id").
		Where(matchCol+" = ?", userID).
		Scan(&out).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list follow edges: %w", err)
	}
	return out, nil
}

func (s *FollowService) GetFollowCounts(ctx context.Context, username string) (*FollowCounts, error) {
	user, err := s.findByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	counts, err := s.countsFor(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return &counts, nil
}

func (s *FollowService) countsFor(ctx context.Context, userID uint) (FollowCounts, error) {
	if fc, ok := s.cache.Get(ctx, userID); ok {
		return fc, nil
	}

	var fc FollowCounts
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.db.WithContext(gctx).Model(&models.Follow{}).
			Where("following_id = ?", userID).Count(&fc.Followers).Error
	})
	g.Go(func() error {
		return s.db.WithContext(gctx).Model(&models.Follow{}).
			Where("follower_id = ?", userID).Count(&fc.Following).Error
	})
	if err := g.Wait(); err != nil {
		return FollowCounts{}, fmt.Errorf("failed to count follows: %w", err)
	}

	s.cache.Set(ctx, userID, fc)
	return fc, nil
}

type followRequestRow struct {
	ID          uint
	CreatedAt   time.Time
	RequesterID uint
	Username    *string
	Email       string
	ProfileID   *uint
	FirstName   *string
	LastName    *string
	ImageURL    *string
}

// GetFollowRequests lists pending requests targeting userID, newest first.
func (s *FollowService) GetFollowRequests(ctx context.Context, userID uint) ([]FollowRequestView, error) {
	var rows []followRequestRow
	err := s.db.WithContext(ctx).
		Table("follow_requests AS fr").
		Select("fr.id, fr.created_at, u.id AS requester_id, u.username, u.email, " +
			"p.id AS profile_id, p.first_name, p.last_name, p.image_url").
		Joins("JOIN users u ON u.id = fr.requester_id").
		Joins("LEFT JOIN profiles p ON p.user_id = u.id").
		Where("fr.target_id = ?", userID).
		Order("fr.created_at DESC, fr.id DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list follow requests: %w", err)
	}

	out := make([]FollowRequestView, 0, len(rows))
	for _, r := range rows {
		v := FollowRequestView{
			ID:        r.ID,
			CreatedAt: r.CreatedAt,
			Requester: Requester{UserSummary: UserSummary{ID: r.RequesterID, Username: r.Username, Email: r.Email}},
		}
		if r.ProfileID != nil {
			v.Requester.Profile = &RequesterProfile{
				FirstName: deref(r.FirstName),
				LastName:  deref(r.LastName),
				ImageURL:  deref(r.ImageURL),
			}
		}
		out = append(out, v)
	}
	return out, nil
}

// AcceptFollowRequest promotes the request to an edge in one transaction, so
// the pair is never observed as both following and requested.
func (s *FollowService) AcceptFollowRequest(ctx context.Context, userID, requestID uint) (*FollowResult, error) {
	var req models.FollowRequest
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&req, requestID).Error; err != nil {
			if isNotFound(err) {
				return ErrInvalidFollowRequest
			}
			return err
		}
		if req.TargetID != userID {
			return ErrInvalidFollowRequest
		}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&models.Follow{FollowerID: req.RequesterID, FollowingID: req.TargetID}).Error; err != nil {
			return fmt.Errorf("failed to create follow relationship: %w", err)
		}
		res := tx.Where("id = ? AND target_id = ?", req.ID, userID).Delete(&models.FollowRequest{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// resolved concurrently
			return ErrInvalidFollowRequest
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx, req.RequesterID, req.TargetID)
	followEvents.WithLabelValues("accept").Inc()
	s.notify(ctx, req.RequesterID, userID, models.NotificationRequestAccepted, "accepted your follow request")
	return &FollowResult{Status: StatusAccepted}, nil
}

func (s *FollowService) RejectFollowRequest(ctx context.Context, userID, requestID uint) (*FollowResult, error) {
	res := s.db.WithContext(ctx).
		Where("id = ? AND target_id = ?", requestID, userID).
		Delete(&models.FollowRequest{})
	if res.Error != nil {
		return nil, fmt.Errorf("failed to reject follow request: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrInvalidFollowRequest
	}
	followEvents.WithLabelValues("reject").Inc()
	return &FollowResult{Status: StatusRejected}, nil
}

// RemoveFollower drops the edge username -> userID.
func (s *FollowService) RemoveFollower(ctx context.Context, userID uint, username string) (*FollowResult, error) {
	follower, err := s.findByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	res := s.db.WithContext(ctx).
		Where("follower_id = ? AND following_id = ?", follower.ID, userID).
		Delete(&models.Follow{})
	if res.Error != nil {
		return nil, fmt.Errorf("failed to remove follower: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotAFollower
	}
	s.cache.Invalidate(ctx, follower.ID, userID)
	followEvents.WithLabelValues("remove").Inc()
	return &FollowResult{Status: StatusRemoved}, nil
}

// SetPrivacy flips the account's privacy flag. Going public accepts every
// pending request; the number accepted is returned.
func (s *FollowService) SetPrivacy(ctx context.Context, userID uint, isPrivate bool) (int, error) {
	var pending []models.FollowRequest
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.User{}).Where("id = ?", userID).Update("is_private", isPrivate)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrUserNotFound
		}
		if isPrivate {
			return nil
		}

		if err := tx.Where("target_id = ?", userID).Find(&pending).Error; err != nil {
			return err
		}
		if len(pending) == 0 {
			return nil
		}
		edges := make([]models.Follow, len(pending))
		for i, r := range pending {
			edges[i] = models.Follow{FollowerID: r.RequesterID, FollowingID: userID}
		}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&edges).Error; err != nil {
			return err
		}
		return tx.Where("target_id = ?", userID).Delete(&models.FollowRequest{}).Error
	})
	if err != nil {
		return 0, err
	}

	ids := []uint{userID}
	for _, r := range pending {
		ids = append(ids, r.RequesterID)
		s.notify(ctx, r.RequesterID, userID, models.NotificationRequestAccepted, "accepted your follow request")
	}
	if len(pending) > 0 {
		s.cache.Invalidate(ctx, ids...)
		followEvents.WithLabelValues("accept").Add(float64(len(pending)))
	}
	return len(pending), nil
}

func (s *FollowService) notify(ctx context.Context, userID, actorID uint, typ, msg string) {
	if s.notifier == nil {
		return
	}
	s.notifier.Notify(ctx, models.Notification{UserID: userID, ActorID: actorID, Type: typ, Message: msg})
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
