// Package admin implements the operator gRPC API: profile lookup and pausing,
// like counters, match listing and chat history.
package admin

import (
	"context"
	"time"

	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/oggyb/mysticmatch/internal/app"
	"github.com/oggyb/mysticmatch/internal/db"
	svcErr "github.com/oggyb/mysticmatch/internal/errors"
	"github.com/oggyb/mysticmatch/internal/repository"
	"github.com/oggyb/mysticmatch/internal/service/matchmaking"
	"github.com/oggyb/mysticmatch/internal/utils/pagination"
)

const (
	defaultHistoryPage = 20
	maxHistoryPage     = 100
)

// Service implements AdminServer on top of the repositories and the
// matchmaking service.
type Service struct {
	appCtx *app.AppContext
	match  *matchmaking.Service
}

// NewService creates the admin service with dependencies from AppContext.
func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx: appCtx,
		match:  matchmaking.NewService(appCtx),
	}
}

var _ AdminServer = (*Service)(nil)

// GetProfile returns one profile as a JSON-like struct.
//
// Example:
//
//	svc.GetProfile(ctx, wrapperspb.Int64(42))
func (s *Service) GetProfile(ctx context.Context, req *wrapperspb.Int64Value) (*structpb.Struct, error) {
	s.appCtx.Logger.Debug("GetProfile called", "user", req.GetValue())

	if req.GetValue() <= 0 {
		return nil, svcErr.InvalidArgument("user id must be positive")
	}
	p, err := s.appCtx.Profiles.Get(ctx, req.GetValue())
	if err != nil {
		return nil, svcErr.Map(err)
	}
	return structpb.NewStruct(profileFields(*p))
}

// SetActive pauses or resumes a profile. Paused profiles are no longer
// offered as candidates.
//
// Request fields: user_id (number), active (bool).
func (s *Service) SetActive(ctx context.Context, req *structpb.Struct) (*emptypb.Empty, error) {
	userID, err := int64Field(req, "user_id")
	if err != nil {
		return nil, err
	}
	v, ok := req.GetFields()["active"]
	if !ok {
		return nil, svcErr.InvalidArgument("active is required")
	}
	if _, isBool := v.GetKind().(*structpb.Value_BoolValue); !isBool {
		return nil, svcErr.InvalidArgument("active must be a bool")
	}
	active := v.GetBoolValue()

	if err := s.appCtx.Profiles.Update(ctx, userID, repository.ProfileUpdate{Active: &active}); err != nil {
		s.appCtx.Logger.Error("SetActive failed", "user", userID, "err", err)
		return nil, svcErr.Map(err)
	}
	s.appCtx.Logger.Info("profile active changed", "user", userID, "active", active)
	return &emptypb.Empty{}, nil
}

// CountLikes returns how many distinct users liked the given user.
// Served from the Redis counter when present, otherwise from the database.
func (s *Service) CountLikes(ctx context.Context, req *wrapperspb.Int64Value) (*wrapperspb.Int64Value, error) {
	if req.GetValue() <= 0 {
		return nil, svcErr.InvalidArgument("user id must be positive")
	}
	n, err := s.match.CountLikes(ctx, req.GetValue())
	if err != nil {
		return nil, svcErr.Map(err)
	}
	return wrapperspb.Int64(n), nil
}

// ListMatches returns {"matches": [profile...]} for the user, oldest match first.
func (s *Service) ListMatches(ctx context.Context, req *wrapperspb.Int64Value) (*structpb.Struct, error) {
	userID := req.GetValue()
	if userID <= 0 {
		return nil, svcErr.InvalidArgument("user id must be positive")
	}
	ok, err := s.appCtx.Profiles.Exists(ctx, userID)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	if !ok {
		return nil, svcErr.Map(svcErr.ErrProfileNotFound)
	}

	profiles, err := s.match.Matches(ctx, userID)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	list := make([]any, 0, len(profiles))
	for _, p := range profiles {
		list = append(list, profileFields(p))
	}
	return structpb.NewStruct(map[string]any{"matches": list})
}

// ChatHistory pages through the messages exchanged by two users, newest page
// first, each page in chronological order.
//
// Request fields: user_id, peer_id, page_size (optional, max 100),
// page_token (optional, from the previous response).
// Response: {"messages": [...], "next_page_token": "..."}; the token is empty
// on the last page.
func (s *Service) ChatHistory(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	userID, err := int64Field(req, "user_id")
	if err != nil {
		return nil, err
	}
	peerID, err := int64Field(req, "peer_id")
	if err != nil {
		return nil, err
	}

	size := defaultHistoryPage
	if v, ok := req.GetFields()["page_size"]; ok {
		size = int(v.GetNumberValue())
	}
	if size <= 0 || size > maxHistoryPage {
		return nil, svcErr.InvalidArgument("page_size must be between 1 and 100")
	}

	token := req.GetFields()["page_token"].GetStringValue()
	cursor, err := pagination.Decode(token)
	if err != nil {
		return nil, svcErr.InvalidArgument(err.Error())
	}
	if token != "" && !cursor.Matches(userID, peerID) {
		return nil, svcErr.InvalidArgument("page_token belongs to another conversation")
	}

	msgs, err := s.appCtx.Messages.History(ctx, userID, peerID, cursor.BeforeID, size)
	if err != nil {
		s.appCtx.Logger.Error("ChatHistory failed", "user", userID, "peer", peerID, "err", err)
		return nil, svcErr.Map(err)
	}

	list := make([]any, 0, len(msgs))
	for _, m := range msgs {
		list = append(list, map[string]any{
			"id":         float64(m.ID),
			"from":       float64(m.FromUserID),
			"to":         float64(m.ToUserID),
			"text":       m.Text,
			"created_at": m.CreatedAt.UTC().Format(time.RFC3339),
		})
	}

	next := ""
	if len(msgs) == size {
		// msgs is oldest first, so the next page starts before msgs[0]
		next, err = pagination.Encode(pagination.For(userID, peerID, msgs[0].ID))
		if err != nil {
			return nil, svcErr.Map(err)
		}
	}

	return structpb.NewStruct(map[string]any{"messages": list, "next_page_token": next})
}

func profileFields(p db.Profile) map[string]any {
	var pref any
	if p.InterestedIn != nil {
		pref = *p.InterestedIn
	}
	return map[string]any{
		"user_id":       float64(p.UserID),
		"username":      p.Username,
		"name":          p.Name,
		"age":           float64(p.Age),
		"gender":        p.Gender,
		"interested_in": pref,
		"city":          p.City,
		"bio":           p.Bio,
		"photo":         p.Photo,
		"active":        p.Active,
		"created_at":    p.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// int64Field reads a positive integer id from a struct field. JSON numbers
// arrive as doubles.
func int64Field(req *structpb.Struct, name string) (int64, error) {
	v, ok := req.GetFields()[name]
	if !ok {
		return 0, svcErr.InvalidArgument(name + " is required")
	}
	n := v.GetNumberValue()
	if n <= 0 || n != float64(int64(n)) {
		return 0, svcErr.InvalidArgument(name + " must be a positive integer")
	}
	return int64(n), nil
}
