package router

import (
	"context"
	"strings"

	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/auth"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/selector"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/dtroode/approver/internal/api/grpc/handler"
	"github.com/dtroode/approver/internal/api/grpc/middleware"
	"github.com/dtroode/approver/internal/logger"
	"github.com/dtroode/approver/internal/model"
)

// Router wires the Approver service and its interceptors into a gRPC server.
type Router struct {
	orchestrator   model.Orchestrator
	accounts       model.AccountDirectory
	tokens         model.TokenManager
	contextManager model.ContextManager
	logger         *logger.Logger
}

// New creates new gRPC Router instance.
func New(
	orchestrator model.Orchestrator,
	accounts model.AccountDirectory,
	tokens model.TokenManager,
	contextManager model.ContextManager,
	logger *logger.Logger,
) *Router {
	return &Router{
		orchestrator:   orchestrator,
		accounts:       accounts,
		tokens:         tokens,
		contextManager: contextManager,
		logger:         logger,
	}
}

// requiresAuth reports whether a call must carry a client token.
// Only the health service is open.
func requiresAuth(_ context.Context, c interceptors.CallMeta) bool {
	return !strings.HasPrefix(c.FullMethod(), "/"+healthpb.Health_ServiceDesc.ServiceName+"/")
}

// Register builds the gRPC server with logging and authentication interceptors
// and registers the Approver and health services on it.
func (r *Router) Register() *grpc.Server {
	logging := middleware.NewLogging(r.logger)
	authenticate := middleware.NewAuthenticate(r.tokens, r.contextManager, r.logger)

	s := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			logging.HandleGRPC,
			selector.UnaryServerInterceptor(
				auth.UnaryServerInterceptor(authenticate.AuthFunc),
				selector.MatchFunc(requiresAuth),
			),
		),
		grpc.ChainStreamInterceptor(
			logging.HandleGRPCStream,
			selector.StreamServerInterceptor(
				auth.StreamServerInterceptor(authenticate.AuthFunc),
				selector.MatchFunc(requiresAuth),
			),
		),
	)

	r.registerApproverRoutes(s)
	r.registerHealth(s)

	return s
}

func (r *Router) registerApproverRoutes(server *grpc.Server) {
	approverHandler := handler.NewApprover(r.orchestrator, r.accounts, r.contextManager, r.logger)
	handler.RegisterApproverServer(server, approverHandler)
}

func (r *Router) registerHealth(server *grpc.Server) {
	hs := health.NewServer()
	hs.SetServingStatus(handler.ApproverServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(server, hs)
}
