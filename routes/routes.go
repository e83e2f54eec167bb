package routes

import (
	"net/http"

	"fittrack/controllers"
	"fittrack/middlewares"
	"fittrack/services"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// Deps is everything the router needs; optional collaborators are nil-safe
// inside the services themselves.
type Deps struct {
	Log           logrus.FieldLogger
	CORSOrigins   []string
	Auth          *services.AuthService
	Follows       *services.FollowService
	Profiles      *services.ProfileService
	Reports       *services.ReportService
	Workouts      *services.WorkoutService
	Diets         *services.DietService
	Schedules     *services.ScheduleService
	Notifications *services.NotificationService
	Push          *services.PushService
	Hub           *services.RealtimeHub
}

func SetupRouter(d Deps) (*gin.Engine, error) {
	if err := controllers.RegisterValidators(); err != nil {
		return nil, err
	}

	r := gin.New()
	r.Use(gin.Recovery(), middlewares.RequestLogger(d.Log), middlewares.Metrics(), middlewares.CORS(d.CORSOrigins))

	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authCtl := controllers.NewAuthController(d.Auth, d.Log)
	profileCtl := controllers.NewProfileController(d.Profiles, d.Follows, d.Reports, d.Log)
	followCtl := controllers.NewFollowController(d.Follows, d.Log)
	reportCtl := controllers.NewReportController(d.Reports, d.Log)
	workoutCtl := controllers.NewWorkoutController(d.Workouts, d.Log)
	dietCtl := controllers.NewDietController(d.Diets, d.Log)
	scheduleCtl := controllers.NewScheduleController(d.Schedules, d.Log)
	notifCtl := controllers.NewNotificationController(d.Notifications, d.Log)
	deviceCtl := controllers.NewDeviceController(d.Push, d.Log)
	rtCtl := controllers.NewRealtimeController(d.Hub, d.CORSOrigins)

	authMW := middlewares.AuthMiddleware(d.Auth)

	// Public auth routes
	auth := r.Group("/auth")
	{
		auth.POST("/register", authCtl.Register)
		auth.POST("/login", authCtl.Login)
		auth.POST("/firebase-login", authCtl.FirebaseLogin)
		auth.PUT("/username", authMW, authCtl.SetUsername)
	}

	api := r.Group("/")
	api.Use(authMW)

	profile := api.Group("/profile")
	{
		profile.GET("", profileCtl.GetProfile)
		profile.PUT("", profileCtl.UpdateProfile)
		profile.GET("/activity-heatmap", profileCtl.ActivityHeatmap)
		profile.PUT("/privacy", profileCtl.SetPrivacy)
		profile.POST("/upload-image", profileCtl.UploadImage)
		profile.DELETE("/upload-image", profileCtl.DeleteImage)
	}

	users := api.Group("/users")
	{
		users.GET("/profile/:username", profileCtl.GetProfileByUsername)
		users.GET("/search", profileCtl.Search)
	}

	follow := api.Group("/follow")
	{
		follow.GET("/requests", followCtl.Requests)
		follow.POST("/requests/:id/accept", followCtl.Accept)
		follow.DELETE("/requests/:id", followCtl.Reject)
		follow.GET("/followers/:username", followCtl.Followers)
		follow.DELETE("/followers/:username", followCtl.RemoveFollower)
		follow.GET("/following/:username", followCtl.Following)
		follow.GET("/count/:username", followCtl.Counts)
		follow.GET("/status/:username", followCtl.Status)
		follow.POST("/:username", followCtl.Follow)
		follow.DELETE("/:username", followCtl.Unfollow)
	}

	api.GET("/dashboard", reportCtl.Dashboard)
	reports := api.Group("/reports")
	{
		reports.GET("/daily", reportCtl.Daily)
		reports.GET("/weekly", reportCtl.Weekly)
		reports.GET("/monthly", reportCtl.Monthly)
		reports.GET("/exercises", reportCtl.Exercises)
		reports.GET("/exercise-progress", reportCtl.ExerciseProgress)
	}

	for path, ctl := range map[string]recordController{
		"/workouts": workoutCtl,
		"/diet":     dietCtl,
		"/schedule": scheduleCtl,
	} {
		g := api.Group(path)
		g.GET("", ctl.List)
		g.POST("", ctl.Create)
		g.PUT("/:id", ctl.Update)
		g.DELETE("/:id", ctl.Delete)
	}

	api.GET("/notifications", notifCtl.List)
	api.POST("/notifications/:id/read", notifCtl.MarkRead)
	api.POST("/devices", deviceCtl.Register)
	api.POST("/user/notifications/toggle", deviceCtl.Toggle)
	api.GET("/ws/notifications", rtCtl.NotificationsWS)

	return r, nil
}

type recordController interface {
	List(c *gin.Context)
	Create(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
}
