package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/moyoez/fileuploader/api/controllers"
	"github.com/moyoez/fileuploader/api/middlewares"
	"github.com/moyoez/fileuploader/api/notifyhub"
	"github.com/moyoez/fileuploader/tool"
	"github.com/moyoez/fileuploader/types"
	"github.com/moyoez/fileuploader/uploader"
)

// Server is the local dashboard API. It owns one instance of each uploader.
type Server struct {
	port     int
	allowLan bool
	stage    string
	single   *uploader.Single
	multi    *uploader.Multi
	hub      *notifyhub.Hub
	server   *http.Server
	mu       sync.RWMutex
}

// NewServer wires the given components into a server. hub may be nil to disable /notify-ws.
func NewServer(cfg *types.AppConfig, single *uploader.Single, multi *uploader.Multi, hub *notifyhub.Hub) *Server {
	return &Server{
		port:     cfg.Port,
		allowLan: cfg.AllowLan,
		stage:    cfg.StageFolder,
		single:   single,
		multi:    multi,
		hub:      hub,
	}
}

// Handler builds the routes. Exposed for tests.
func (s *Server) Handler() http.Handler {
	return s.setupRoutes()
}

func (s *Server) setupRoutes() *gin.Engine {
	if tool.DefaultLogger.GetLevel() == log.DebugLevel {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Logger(), gin.Recovery())

	singleCtrl := controllers.NewSingleController(s.single)
	multiCtrl := controllers.NewMultiController(s.multi)
	stageCtrl := controllers.NewStageController(s.stage)

	guard := middlewares.OnlyAllowLocal
	if s.allowLan {
		guard = middlewares.OnlyAllowPrivate
	}

	// the echo route parses multipart bodies to temp files, so it gets the same guard
	echo := engine.Group("/api/echo/v1", guard)
	{
		echo.POST("/post", controllers.HandleEcho)
	}

	self := engine.Group("/api/self/v1", guard)
	{
		self.GET("/status", controllers.UserStatus)
		self.POST("/stage", stageCtrl.HandleStage)                // Browser file picker target
		self.DELETE("/stage/:id", stageCtrl.HandleUnstage)
		self.GET("/single", singleCtrl.HandleView)                // Single uploader view
		self.POST("/single/select", singleCtrl.HandleSelect)      // Replace selection
		self.POST("/single/upload", singleCtrl.HandleUpload)      // Upload selection, waits for the result
		self.GET("/multi", multiCtrl.HandleView)                  // Multi uploader view
		self.POST("/multi/select", multiCtrl.HandleSelect)        // Append files
		self.DELETE("/multi/entries/:id", multiCtrl.HandleRemove) // Remove one entry
		self.DELETE("/multi/entries", multiCtrl.HandleClear)      // Remove all entries
		self.POST("/multi/upload", multiCtrl.HandleUpload)        // Start a batch
		self.GET("/multi/batches", multiCtrl.HandleBatches)
		self.GET("/multi/batches/:id", multiCtrl.HandleBatch)
		self.GET("/create-qr-code", controllers.DashboardQRCode) // QR code PNG (same params as api.qrserver.com)
		if s.hub != nil {
			self.GET("/notify-ws", notifyhub.HandleNotifyWS(s.hub, s.snapshot))
		}
	}
	return engine
}

// snapshot is the first notify-ws message: both views as they are right now.
func (s *Server) snapshot() *types.Notification {
	data := map[string]any{}
	if s.single != nil {
		data["single"] = s.single.View()
	}
	if s.multi != nil {
		data["multi"] = s.multi.View()
	}
	return &types.Notification{
		Type:  types.NotifyTypeSnapshot,
		Title: "Dashboard State",
		Data:  data,
	}
}

// Start serves until Shutdown is called.
func (s *Server) Start() error {
	engine := s.setupRoutes()

	s.mu.Lock()
	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", s.port),
		Handler: engine,
	}
	srv := s.server
	s.mu.Unlock()

	tool.DefaultLogger.Infof("Starting dashboard API on http://0.0.0.0:%d", s.port)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.RLock()
	srv := s.server
	s.mu.RUnlock()
	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}
