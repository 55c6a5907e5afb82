package context

import (
	"context"

	"github.com/google/uuid"
	"google.golang.org/grpc/metadata"
)

// clientIDKey is the incoming metadata key carrying the authenticated client.
const clientIDKey string = "client_id"

// Manager stores the authenticated client ID in gRPC incoming metadata.
type Manager struct{}

// NewManager creates a new gRPC context manager instance.
func NewManager() *Manager {
	return &Manager{}
}

// SetClientIDToContext returns a context whose incoming metadata carries clientID.
// Existing metadata is preserved.
func (m *Manager) SetClientIDToContext(ctx context.Context, clientID uuid.UUID) context.Context {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		md = metadata.New(map[string]string{clientIDKey: clientID.String()})
	} else {
		md = md.Copy()
		md.Set(clientIDKey, clientID.String())
	}

	return metadata.NewIncomingContext(ctx, md)
}

// GetClientIDFromContext returns the client ID set by SetClientIDToContext.
func (m *Manager) GetClientIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return uuid.Nil, false
	}

	ids := md.Get(clientIDKey)
	if len(ids) == 0 {
		return uuid.Nil, false
	}

	clientID, err := uuid.Parse(ids[0])
	if err != nil {
		return uuid.Nil, false
	}

	return clientID, true
}
