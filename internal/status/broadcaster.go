package status

import (
	"context"

	socketio "github.com/zishang520/socket.io/v2/socket"

	"github.com/vk/qgraph/internal/ctxlog"
	"github.com/vk/qgraph/internal/dag"
)

// Broadcaster pushes the rendered status lines to every client connected
// to a socket.io room, so a browser dashboard can show live progress
// without polling the log file. It is additive and best-effort: nothing
// in the core scheduling loop depends on whether a dashboard is
// connected.
type Broadcaster struct {
	server *socketio.Server
	room   socketio.Room
}

// NewBroadcaster wraps an already-running socket.io server. room scopes
// broadcasts to one run, so a single dashboard server can host more than
// one concurrent pipeline.
func NewBroadcaster(server *socketio.Server, room string) *Broadcaster {
	return &Broadcaster{server: server, room: socketio.Room(room)}
}

// Push renders g's current status and emits it to every socket in the
// broadcaster's room under the "status" event.
func (b *Broadcaster) Push(ctx context.Context, g *dag.Graph) {
	if b == nil || b.server == nil {
		return
	}
	lines := RenderLines(Aggregate(g))
	if err := b.server.To(b.room).Emit("status", lines); err != nil {
		ctxlog.FromContext(ctx).Warn("status: broadcast failed", "error", err)
	}
}
