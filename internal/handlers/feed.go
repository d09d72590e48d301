package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

var feedUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Origins are already filtered by the CORS middleware
	CheckOrigin: func(r *http.Request) bool { return true },
}

// TokenFeedSocket upgrades the connection and subscribes it to the live
// token feed until the client goes away.
func TokenFeedSocket(c *gin.Context) {
	conn, err := feedUpgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Warnf("Token feed upgrade failed: %v", err)
		return
	}

	TokenFeed.Register(conn)

	// Drain reads so close frames are processed; the feed is write-only.
	go func() {
		defer TokenFeed.Unregister(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
