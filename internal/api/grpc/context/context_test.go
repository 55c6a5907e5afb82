package context

import (
	stdctx "context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/metadata"

	"github.com/dtroode/approver/internal/model"
)

var _ model.ContextManager = (*Manager)(nil)

func TestManager_SetAndGetClientID(t *testing.T) {
	m := NewManager()
	id := uuid.New()
	ctx := m.SetClientIDToContext(stdctx.Background(), id)

	got, ok := m.GetClientIDFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, id, got)
}

func TestManager_GetClientID_NotFound(t *testing.T) {
	m := NewManager()
	_, ok := m.GetClientIDFromContext(stdctx.Background())
	assert.False(t, ok)
}

func TestManager_SetClientID_WithExistingMetadata(t *testing.T) {
	m := NewManager()
	id := uuid.New()
	base := metadata.New(map[string]string{"authorization": "Bearer t"})
	ctxWithMD := metadata.NewIncomingContext(stdctx.Background(), base)

	ctx := m.SetClientIDToContext(ctxWithMD, id)

	got, ok := m.GetClientIDFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, id, got)

	md, _ := metadata.FromIncomingContext(ctx)
	assert.Equal(t, []string{"Bearer t"}, md.Get("authorization"))
	assert.Empty(t, base.Get(clientIDKey), "original metadata must stay untouched")
}

func TestManager_GetClientID_InvalidUUID(t *testing.T) {
	m := NewManager()
	md := metadata.New(map[string]string{clientIDKey: "not-a-uuid"})
	ctx := metadata.NewIncomingContext(stdctx.Background(), md)

	_, ok := m.GetClientIDFromContext(ctx)
	assert.False(t, ok)
}
