package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/dtroode/approver/internal/logger"
	"github.com/dtroode/approver/internal/model"
)

var errMissingToken = errors.New("missing authorization token")

// Authenticate validates client bearer tokens and injects the client ID into context.
type Authenticate struct {
	tokens         model.TokenManager
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewAuthenticate creates a new Authenticate middleware instance.
func NewAuthenticate(tokens model.TokenManager, contextManager model.ContextManager, logger *logger.Logger) *Authenticate {
	return &Authenticate{tokens: tokens, contextManager: contextManager, logger: logger}
}

// AuthFunc parses the authorization header, validates the token and returns a context with the client ID.
func (m *Authenticate) AuthFunc(ctx context.Context) (context.Context, error) {
	var tokenString string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if authHeaders := md.Get("authorization"); len(authHeaders) > 0 {
			tokenString = strings.TrimPrefix(authHeaders[0], "Bearer ")
		}
	}

	clientID, err := m.authenticateClient(tokenString)
	if err != nil {
		m.logger.Debug("Authenticate middleware: rejected client", "error", err.Error())
		return nil, status.Error(codes.Unauthenticated, err.Error())
	}

	return m.contextManager.SetClientIDToContext(ctx, clientID), nil
}

func (m *Authenticate) authenticateClient(tokenString string) (uuid.UUID, error) {
	if tokenString == "" {
		return uuid.Nil, errMissingToken
	}

	clientID, err := m.tokens.ParseClientToken(tokenString)
	if err != nil {
		return uuid.Nil, model.ErrInvalidToken
	}

	if clientID == uuid.Nil {
		return uuid.Nil, model.ErrInvalidToken
	}

	return clientID, nil
}
