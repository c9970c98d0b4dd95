package realtime

import "time"

// Security/performance limits.
const (
	// Max bytes per websocket frame read (hard limit). Clients only send pings.
	maxFrameBytes = 4 << 10 // 4 KiB
)

const (
	// Heartbeat defaults (overridable via NOTEBOOK_WS_HEARTBEAT_*).
	heartbeatInterval = 25 * time.Second
	heartbeatTimeout  = 5 * time.Second
)
