package bootstrap

import "context"

// AuditLog is one operational event worth keeping: server lifecycle, seeding,
// employee changes seen on the event stream.
type AuditLog struct {
	Action  string
	Message string
	Meta    map[string]any
}

type AuditLogger interface {
	Log(ctx context.Context, entry AuditLog)
}
