package notifyhub

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/moyoez/fileuploader/types"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // the route group already restricts who may connect
	},
}

// SnapshotFunc builds the first message a new client gets, so a freshly opened dashboard can draw
// both uploaders before any event arrives.
type SnapshotFunc func() *types.Notification

// HandleNotifyWS upgrades the request, sends the snapshot (when set) and keeps the client
// registered until it disconnects.
func HandleNotifyWS(hub *Hub, snapshot SnapshotFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		hub.Register(conn)
		defer hub.Unregister(conn)
		if snapshot != nil {
			hub.SendTo(conn, snapshot())
		}

		// incoming messages are ignored, reading only notices the close
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
	}
}
