package router

import (
	"context"
	"strings"

	"github.com/dtroode/glowbook-server/internal/api/grpc/handler"
	"github.com/dtroode/glowbook-server/internal/api/grpc/middleware"
	"github.com/dtroode/glowbook-server/internal/logger"
	"github.com/dtroode/glowbook-server/internal/model"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/auth"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/recovery"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/selector"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"
)

// Router builds the gRPC server of the session service.
type Router struct {
	sessionService handler.AccountSessions
	authenticator  middleware.Authenticator
	contextManager model.ContextManager
	health         *health.Server
	logger         *logger.Logger
}

func New(
	sessionService handler.AccountSessions,
	authenticator middleware.Authenticator,
	contextManager model.ContextManager,
	logger *logger.Logger,
) *Router {
	return &Router{
		sessionService: sessionService,
		authenticator:  authenticator,
		contextManager: contextManager,
		health:         health.NewServer(),
		logger:         logger,
	}
}

// requiresAuth leaves health checks and reflection open.
func requiresAuth(_ context.Context, c interceptors.CallMeta) bool {
	method := c.FullMethod()
	return !strings.HasPrefix(method, "/grpc.health.v1.Health/") &&
		!strings.HasPrefix(method, "/grpc.reflection.")
}

// Register returns a gRPC server with every service and interceptor installed.
func (r *Router) Register() *grpc.Server {
	logging := middleware.NewLogging(r.logger)
	authenticate := middleware.NewAuthenticate(r.authenticator, r.contextManager, r.logger)
	recoverPanics := recovery.WithRecoveryHandlerContext(r.recoverPanic)

	s := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(
			logging.HandleGRPC,
			recovery.UnaryServerInterceptor(recoverPanics),
			selector.UnaryServerInterceptor(
				auth.UnaryServerInterceptor(authenticate.AuthFunc),
				selector.MatchFunc(requiresAuth),
			),
		),
		grpc.ChainStreamInterceptor(
			recovery.StreamServerInterceptor(recoverPanics),
			selector.StreamServerInterceptor(
				auth.StreamServerInterceptor(authenticate.AuthFunc),
				selector.MatchFunc(requiresAuth),
			),
		),
	)

	handler.RegisterSessionServiceServer(s, handler.NewSession(r.sessionService, r.contextManager, r.logger))
	healthpb.RegisterHealthServer(s, r.health)
	r.health.SetServingStatus(handler.SessionServiceName, healthpb.HealthCheckResponse_SERVING)
	reflection.Register(s)

	return s
}

// Health is the grpc health server; call Shutdown on it before draining.
func (r *Router) Health() *health.Server {
	return r.health
}

func (r *Router) recoverPanic(_ context.Context, p any) error {
	r.logger.Error("gRPC router: handler panicked",
		"panic", p)
	return status.Error(codes.Internal, "internal server error")
}
