package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"fittrack/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	awssns "github.com/aws/aws-sdk-go-v2/service/sns"
	"gorm.io/gorm"
)

// snsAPI is the slice of the SNS client the push service uses.
type snsAPI interface {
	CreatePlatformEndpoint(ctx context.Context, in *awssns.CreatePlatformEndpointInput, opts ...func(*awssns.Options)) (*awssns.CreatePlatformEndpointOutput, error)
	Publish(ctx context.Context, in *awssns.PublishInput, opts ...func(*awssns.Options)) (*awssns.PublishOutput, error)
}

type PushService struct {
	db          *gorm.DB
	sns         snsAPI
	platformArn string
}

func NewPushService(db *gorm.DB, client snsAPI, platformArn string) *PushService {
	return &PushService{db: db, sns: client, platformArn: platformArn}
}

type RegisterDeviceReq struct {
	Platform string `json:"platform" binding:"required,oneof=android ios"`
	Token    string `json:"token" binding:"required"`
}

func tokenHash(tok string) string {
	h := sha256.Sum256([]byte(tok))
	return hex.EncodeToString(h[:])
}

func (p *PushService) RegisterDevice(ctx context.Context, userID uint, platform, token string) (*models.UserDevice, error) {
	if p.platformArn == "" {
		return nil, newError(ErrInvalidOperation, "push notifications are not configured")
	}
	out, err := p.sns.CreatePlatformEndpoint(ctx, &awssns.CreatePlatformEndpointInput{
		PlatformApplicationArn: aws.String(p.platformArn),
		Token:                  aws.String(token),
	})
	if err != nil {
		return nil, fmt.Errorf("creating platform endpoint: %w", err)
	}

	dev := models.UserDevice{
		UserID:    userID,
		TokenHash: tokenHash(token),
	}
	err = p.db.WithContext(ctx).
		Where("user_id = ? AND token_hash = ?", userID, dev.TokenHash).
		Assign(models.UserDevice{
			Platform:    strings.ToLower(platform),
			EndpointARN: aws.ToString(out.EndpointArn),
			Enabled:     true,
			UpdatedAt:   time.Now(),
		}).
		FirstOrCreate(&dev).Error
	if err != nil {
		return nil, err
	}
	return &dev, nil
}

func (p *PushService) SetEnabled(ctx context.Context, userID uint, enabled bool) error {
	return p.db.WithContext(ctx).Model(&models.UserDevice{}).
		Where("user_id = ?", userID).
		Update("enabled", enabled).Error
}

// PushToUser publishes to every enabled device of the user and returns the
// first publish error, after trying all devices.
func (p *PushService) PushToUser(ctx context.Context, userID uint, title, body string, data map[string]string) error {
	var devices []models.UserDevice
	if err := p.db.WithContext(ctx).
		Where("user_id = ? AND enabled = ?", userID, true).
		Find(&devices).Error; err != nil {
		return err
	}
	if len(devices) == 0 {
		return nil
	}

	gcm, err := json.Marshal(map[string]any{
		"notification": map[string]string{"title": title, "body": body},
		"data":         data,
	})
	if err != nil {
		return err
	}
	raw, err := json.Marshal(map[string]string{"default": body, "GCM": string(gcm)})
	if err != nil {
		return err
	}

	var firstErr error
	for _, d := range devices {
		_, err := p.sns.Publish(ctx, &awssns.PublishInput{
			MessageStructure: aws.String("json"),
			Message:          aws.String(string(raw)),
			TargetArn:        aws.String(d.EndpointARN),
		})
		if err != nil && firstErr == nil {
			firstErr = fmt.Errorf("publishing to %s: %w", d.EndpointARN, err)
		}
	}
	return firstErr
}
