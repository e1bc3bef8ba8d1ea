// Package grpcserver exposes the sourcing page over gRPC for internal
// callers.
//
// It delegates all business logic to view.Session and handles only the gRPC
// transport concerns: metadata extraction, error mapping and the health
// service.
package grpcserver

import (
	"context"
	"errors"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"

	"hiring/sourcing-service/internal/lifecycle"
	"hiring/sourcing-service/internal/model"
	"hiring/sourcing-service/internal/outreach"
	"hiring/sourcing-service/internal/search"
	"hiring/sourcing-service/internal/view"
)

// ServiceName is the fully-qualified gRPC service name.
const ServiceName = "sourcing.v1.SourcingService"

// SessionStore hands out the per-user sourcing session.
type SessionStore interface {
	Session(userID string) *view.Session
}

// Server implements SourcingService.
type Server struct {
	store SessionStore
}

// NewServer constructs a Server backed by store.
func NewServer(store SessionStore) *Server {
	return &Server{store: store}
}

type ListCandidatesRequest struct {
	Status string `json:"status,omitempty"`
}

type ListCandidatesResponse struct {
	Candidates []model.Candidate `json:"candidates"`
}

type ApplyActionRequest struct {
	CandidateID int64  `json:"candidateId"`
	Action      string `json:"action"`
}

type ApplyActionResponse struct {
	Status lifecycle.Status `json:"status"`
}

// SearchRequest runs one keyword, or every active keyword when All is set.
type SearchRequest struct {
	Keyword string `json:"keyword,omitempty"`
	All     bool   `json:"all,omitempty"`
}

// ─── RPC implementations ──────────────────────────────────────────────────────

// ListCandidates sets the caller's filter and returns the refreshed list.
func (s *Server) ListCandidates(ctx context.Context, req *ListCandidatesRequest) (*ListCandidatesResponse, error) {
	userID, err := userIDFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	sess := s.store.Session(userID)
	if err := sess.SetFilter(ctx, lifecycle.Status(req.Status)); err != nil {
		return nil, toGRPCError(err)
	}
	list, err := sess.Candidates(ctx)
	if err != nil {
		return nil, toGRPCError(err)
	}
	return &ListCandidatesResponse{Candidates: list}, nil
}

// ApplyAction performs a row action on one candidate.
func (s *Server) ApplyAction(ctx context.Context, req *ApplyActionRequest) (*ApplyActionResponse, error) {
	userID, err := userIDFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	action, err := lifecycle.ParseAction(req.Action)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	sess := s.store.Session(userID)
	if _, err := sess.Candidates(ctx); err != nil {
		return nil, toGRPCError(err)
	}
	to, err := sess.Apply(ctx, req.CandidateID, action)
	if err != nil {
		return nil, toGRPCError(err)
	}
	return &ApplyActionResponse{Status: to}, nil
}

// Search runs a single or batch search for the caller.
func (s *Server) Search(ctx context.Context, req *SearchRequest) (*model.SearchResult, error) {
	userID, err := userIDFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	sess := s.store.Session(userID)
	var res model.SearchResult
	if req.All {
		res, err = sess.SearchAll(ctx)
	} else {
		res, err = sess.SearchOne(ctx, req.Keyword)
	}
	if err != nil {
		return nil, toGRPCError(err)
	}
	return &res, nil
}

// ─── Registration ────────────────────────────────────────────────────────────

type sourcingService interface {
	ListCandidates(context.Context, *ListCandidatesRequest) (*ListCandidatesResponse, error)
	ApplyAction(context.Context, *ApplyActionRequest) (*ApplyActionResponse, error)
	Search(context.Context, *SearchRequest) (*model.SearchResult, error)
}

func unaryHandler[Req any, Resp any](method string, call func(sourcingService, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(sourcingService), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/" + method}
			return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
				return call(srv.(sourcingService), ctx, req.(*Req))
			})
		},
	}
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*sourcingService)(nil),
	Methods: []grpc.MethodDesc{
		unaryHandler("ListCandidates", sourcingService.ListCandidates),
		unaryHandler("ApplyAction", sourcingService.ApplyAction),
		unaryHandler("Search", sourcingService.Search),
	},
}

// Register adds SourcingService, the health service and reflection to gs.
// The returned health server reports SERVING for both the service and the
// empty name; callers flip it to NOT_SERVING on shutdown.
func Register(gs *grpc.Server, srv *Server) *health.Server {
	gs.RegisterService(&serviceDesc, srv)

	hs := health.NewServer()
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(gs, hs)

	reflection.Register(gs)
	return hs
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

// userIDFromCtx extracts the x-user-id value forwarded by the gateway via
// gRPC metadata.
func userIDFromCtx(ctx context.Context) (string, error) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return "", status.Error(codes.Unauthenticated, "missing metadata")
	}
	vals := md.Get("x-user-id")
	if len(vals) == 0 || vals[0] == "" {
		return "", status.Error(codes.Unauthenticated, "missing x-user-id metadata")
	}
	return vals[0], nil
}

// toGRPCError maps domain errors to gRPC status errors.
func toGRPCError(err error) error {
	var ve *lifecycle.ValidationError
	var ke *search.KeywordError
	switch {
	case errors.As(err, &ve):
		return status.Error(codes.InvalidArgument, ve.Msg)
	case errors.Is(err, view.ErrCandidateNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, lifecycle.ErrActionDisabled):
		return status.Error(codes.Unimplemented, err.Error())
	case errors.Is(err, lifecycle.ErrActionNotAllowed),
		errors.Is(err, view.ErrBusy),
		errors.Is(err, view.ErrNoDialog):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, outreach.ErrNoTemplates):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.As(err, &ke):
		return status.Error(codes.Unavailable, "search failed")
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	}
	return status.Error(codes.Internal, "internal server error")
}
