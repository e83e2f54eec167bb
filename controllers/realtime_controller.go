package controllers

import (
	"net/http"
	"time"

	"fittrack/services"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const wsReadWait = 60 * time.Second

type RealtimeController struct {
	RT       *services.RealtimeHub
	upgrader websocket.Upgrader
}

// NewRealtimeController accepts upgrades from the given origins; an empty
// list accepts any origin.
func NewRealtimeController(rt *services.RealtimeHub, origins []string) *RealtimeController {
	allowed := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		allowed[o] = struct{}{}
	}
	return &RealtimeController{
		RT: rt,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if len(allowed) == 0 || origin == "" {
					return true
				}
				_, ok := allowed[origin]
				return ok
			},
		},
	}
}

// GET /ws/notifications
func (rc *RealtimeController) NotificationsWS(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	conn, err := rc.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	cl := services.NewWSClient(uid, conn)
	rc.RT.Register(cl)
	go cl.WritePump(rc.RT)

	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(wsReadWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsReadWait))
	})
	// read loop ends on client close/error
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			rc.RT.Unregister(cl)
			return
		}
	}
}
