package notify

import (
	"encoding/binary"
	"fmt"
	"net"
	"os"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/moyoez/fileuploader/tool"
	"github.com/moyoez/fileuploader/types"
)

// NotifyWriteChunkSize is the chunk size when writing payload to Unix socket (avoid large single write).
const NotifyWriteChunkSize = 32 * 1024 // 32KB

// Hub receives every notification, e.g. the websocket hub of the dashboard.
type Hub interface {
	Broadcast(notification *types.Notification)
}

var (
	// SocketPath is an optional Unix socket that also receives notifications. Empty disables it.
	SocketPath = ""
	// UnixSocketTimeout is the timeout for Unix socket operations
	UnixSocketTimeout = 3 * time.Second

	hubMu sync.RWMutex
	hub   Hub
)

// SetHub installs the hub notifications are broadcast to. nil removes it.
func SetHub(h Hub) {
	hubMu.Lock()
	defer hubMu.Unlock()
	hub = h
}

func GetHub() Hub {
	hubMu.RLock()
	defer hubMu.RUnlock()
	return hub
}

// NotifyWSEnabled reports whether a websocket hub is installed.
func NotifyWSEnabled() bool {
	return GetHub() != nil
}

// SendNotification broadcasts to the hub, then writes to the Unix socket when configured.
func SendNotification(notification *types.Notification) error {
	if notification == nil {
		return nil
	}
	if h := GetHub(); h != nil {
		h.Broadcast(notification)
	}
	if SocketPath == "" {
		return nil
	}
	return sendToSocket(notification, SocketPath)
}

// Sink adapts SendNotification to an event callback, logging failures at debug level.
func Sink(notification *types.Notification) {
	if err := SendNotification(notification); err != nil {
		tool.DefaultLogger.Debugf("Failed to send notification %s: %v", notification.Type, err)
	}
}

// sendToSocket writes a 4 byte little-endian length followed by the JSON payload.
func sendToSocket(notification *types.Notification, socketPath string) error {
	if _, err := os.Stat(socketPath); os.IsNotExist(err) {
		return fmt.Errorf("unix socket not found: %s", socketPath)
	}

	payload, err := sonic.Marshal(notification)
	if err != nil {
		return fmt.Errorf("failed to serialize notification data: %v", err)
	}
	if len(payload) > NotifyWriteChunkSize {
		return fmt.Errorf("notification payload too large: %d bytes (max %d)", len(payload), NotifyWriteChunkSize)
	}

	conn, err := net.DialTimeout("unix", socketPath, UnixSocketTimeout)
	if err != nil {
		return fmt.Errorf("failed to connect to Unix socket %s: %v", socketPath, err)
	}
	defer func() {
		if err := conn.Close(); err != nil {
			tool.DefaultLogger.Errorf("Failed to close Unix socket connection: %v", err)
		}
	}()

	if err := conn.SetWriteDeadline(time.Now().Add(UnixSocketTimeout)); err != nil {
		tool.DefaultLogger.Errorf("Failed to set write deadline: %v", err)
	}
	lengthBuf := make([]byte, 4)
	binary.LittleEndian.PutUint32(lengthBuf, uint32(len(payload)))
	if _, err := conn.Write(lengthBuf); err != nil {
		return fmt.Errorf("failed to write length to Unix socket: %v", err)
	}
	if _, err := conn.Write(payload); err != nil {
		return fmt.Errorf("failed to write payload to Unix socket: %v", err)
	}
	return nil
}
