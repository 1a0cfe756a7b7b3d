package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/krishiapp/krishi-settings/internal/domain"
	domainerrors "github.com/krishiapp/krishi-settings/internal/errors"
)

func (s *Server) registerProfileRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getPublicProfile",
		Method:      http.MethodGet,
		Path:        "/api/v1/profile/public",
		Summary:     "Get public profile",
		Description: "Returns the profile as other users see it. Fields hidden by privacy settings are null.",
		Tags:        []string{"Profile"},
	}, s.handleGetPublicProfile)

	huma.Register(s.api, huma.Operation{
		OperationID: "getTheme",
		Method:      http.MethodGet,
		Path:        "/api/v1/theme",
		Summary:     "Get theme",
		Description: "Returns the theme derived from the dark mode setting",
		Tags:        []string{"Profile"},
	}, s.handleGetTheme)
}

// PublicProfileResponse is the privacy-filtered profile.
type PublicProfileResponse struct {
	DisplayName string  `json:"displayName"`
	Phone       *string `json:"phone" nullable:"true" doc:"Null when hidden"`
	Location    *string `json:"location" nullable:"true" doc:"Null when hidden"`
	Earnings    *string `json:"earnings" nullable:"true" doc:"Null when hidden"`
}

// PublicProfileOutput wraps the public profile for Huma.
type PublicProfileOutput struct {
	Body PublicProfileResponse
}

// ThemeResponse reports the current theme.
type ThemeResponse struct {
	Theme     string `json:"theme" enum:"light,dark" doc:"Theme including changes still saving"`
	Committed string `json:"committed" enum:"light,dark" doc:"Theme the store has confirmed"`
}

// ThemeOutput wraps the theme for Huma.
type ThemeOutput struct {
	Body ThemeResponse
}

func (s *Server) handleGetPublicProfile(_ context.Context, _ *struct{}) (*PublicProfileOutput, error) {
	profile, ok := s.engine.PublicProfile()
	if !ok {
		return nil, domainerrors.ErrNotInitialized
	}
	return &PublicProfileOutput{
		Body: PublicProfileResponse{
			DisplayName: profile.DisplayName,
			Phone:       visible(profile.Phone),
			Location:    visible(profile.Location),
			Earnings:    visible(profile.Earnings),
		},
	}, nil
}

func (s *Server) handleGetTheme(_ context.Context, _ *struct{}) (*ThemeOutput, error) {
	current, ok := s.engine.Theme()
	if !ok {
		return nil, domainerrors.ErrNotInitialized
	}
	committed := current
	if s.theme != nil {
		committed = s.theme.Theme()
	}
	return &ThemeOutput{
		Body: ThemeResponse{
			Theme:     string(current),
			Committed: string(committed),
		},
	}, nil
}

func visible(r domain.Redacted) *string {
	v, ok := r.Value()
	if !ok {
		return nil
	}
	return &v
}
