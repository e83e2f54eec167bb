package main

import (
	"context"
	"time"

	"fittrack/config"
	"fittrack/routes"
	"fittrack/services"
	"fittrack/utils"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	log := config.NewLogger("fittrack", levelOr(cfg))
	if err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}

	db, err := config.OpenDB(cfg.DatabaseURL)
	if err != nil {
		log.WithError(err).Fatal("database connection failed")
	}

	ctx := context.Background()
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		log.WithError(err).Fatal("loading AWS config")
	}

	var store services.ObjectStore
	if cfg.S3Bucket != "" {
		store = utils.NewS3Store(awsCfg, cfg.S3Bucket, cfg.CloudFrontURL)
	} else {
		log.Warn("S3_BUCKET not set; profile image upload disabled")
	}
	var moderator services.ImageModerator
	if cfg.ModerationEnabled {
		moderator = utils.NewRekognitionModerator(awsCfg)
	}
	var mailer services.Mailer
	if cfg.SESSender != "" {
		mailer = utils.NewSESMailer(awsCfg, cfg.SESSender)
	}
	var verifier services.TokenVerifier
	if cfg.FirebaseProjectID != "" {
		verifier = utils.NewFirebaseVerifier(cfg.FirebaseProjectID)
	}

	var cache services.CountCache
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.WithError(err).Warn("redis unavailable; follow counts uncached")
		} else {
			cache = services.NewRedisCountCache(rdb, 5*time.Minute)
		}
	}

	hub := services.NewRealtimeHub()
	push := services.NewPushService(db, sns.NewFromConfig(awsCfg), cfg.SNSPlatformARN)
	var pusher services.Pusher
	if cfg.SNSPlatformARN != "" {
		pusher = push
	}
	notifications := services.NewNotificationService(db, hub, pusher, log)
	follows := services.NewFollowService(db, cache, notifications)

	r, err := routes.SetupRouter(routes.Deps{
		Log:           log,
		CORSOrigins:   cfg.CORSOrigins,
		Auth:          services.NewAuthService(db, cfg.JWTSecret, cfg.JWTTTL, verifier, mailer, log),
		Follows:       follows,
		Profiles:      services.NewProfileService(db, follows, store, moderator, log),
		Reports:       services.NewReportService(db),
		Workouts:      services.NewWorkoutService(db),
		Diets:         services.NewDietService(db),
		Schedules:     services.NewScheduleService(db),
		Notifications: notifications,
		Push:          push,
		Hub:           hub,
	})
	if err != nil {
		log.WithError(err).Fatal("router setup failed")
	}

	log.WithFields(logrus.Fields{"port": cfg.Port}).Info("listening")
	if err := r.Run(":" + cfg.Port); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}

func levelOr(cfg *config.Config) string {
	if cfg == nil {
		return "info"
	}
	return cfg.LogLevel
}
