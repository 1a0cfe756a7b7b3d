package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/krishiapp/krishi-settings/internal/domain"
	domainerrors "github.com/krishiapp/krishi-settings/internal/errors"
)

func (s *Server) registerSettingsRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getSettings",
		Method:      http.MethodGet,
		Path:        "/api/v1/settings",
		Summary:     "Get settings",
		Description: "Returns the current settings with the fields still saving and the fields saved a moment ago",
		Tags:        []string{"Settings"},
	}, s.handleGetSettings)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateSetting",
		Method:      http.MethodPatch,
		Path:        "/api/v1/settings/{field}",
		Summary:     "Update one setting",
		Description: "Changes a single field. The new value is visible immediately; with wait=false the response returns before the store confirms.",
		Tags:        []string{"Settings"},
	}, s.handleUpdateSetting)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateSettings",
		Method:      http.MethodPatch,
		Path:        "/api/v1/settings",
		Summary:     "Update several settings",
		Description: "Changes several fields as one write. Either every field is accepted or none is.",
		Tags:        []string{"Settings"},
	}, s.handleUpdateSettings)

	huma.Register(s.api, huma.Operation{
		OperationID: "getSettingState",
		Method:      http.MethodGet,
		Path:        "/api/v1/settings/{field}/state",
		Summary:     "Get save state",
		Description: "Reports whether a field is idle, saving, or recently saved",
		Tags:        []string{"Settings"},
	}, s.handleGetSettingState)
}

// === DTOs ===

// SettingsResponse is the settings screen's view of the engine.
type SettingsResponse struct {
	Settings      domain.UserSettings `json:"settings" doc:"Every preference field"`
	Status        string              `json:"status" doc:"Engine status: loading or ready"`
	Pending       []string            `json:"pending" doc:"Fields whose save has not finished"`
	RecentlySaved []string            `json:"recentlySaved" doc:"Fields saved within the indicator window"`
}

// SettingsOutput wraps the settings response for Huma.
type SettingsOutput struct {
	Body SettingsResponse
}

// WriteResponse describes an accepted write.
type WriteResponse struct {
	WriteID  string   `json:"writeId" doc:"Identifier of the write"`
	Fields   []string `json:"fields" doc:"Fields the write changed"`
	Cascaded []string `json:"cascaded,omitempty" doc:"Fields changed by rules the write triggered"`
	Saved    bool     `json:"saved" doc:"True when the store confirmed the write before the response"`

	Settings      domain.UserSettings `json:"settings" doc:"Settings after the write"`
	Pending       []string            `json:"pending" doc:"Fields whose save has not finished"`
	RecentlySaved []string            `json:"recentlySaved" doc:"Fields saved within the indicator window"`
}

// WriteOutput wraps a write response for Huma.
type WriteOutput struct {
	Status int
	Body   WriteResponse
}

// UpdateSettingInput contains parameters for changing one field.
type UpdateSettingInput struct {
	Field string `path:"field" doc:"Setting name, for example darkMode"`
	Wait  bool   `query:"wait" default:"true" doc:"Wait for the store before responding"`
	Body  struct {
		Value any `json:"value" doc:"New value; boolean or string depending on the field"`
	}
}

// UpdateSettingsInput contains parameters for changing several fields.
type UpdateSettingsInput struct {
	Wait bool `query:"wait" default:"true" doc:"Wait for the store before responding"`
	Body struct {
		Changes map[string]any `json:"changes" doc:"Field name to new value"`
	}
}

// FieldStateInput names a field.
type FieldStateInput struct {
	Field string `path:"field" doc:"Setting name"`
}

// FieldStateResponse reports one field's save indicator.
type FieldStateResponse struct {
	Field string `json:"field"`
	State string `json:"state" enum:"idle,pending,saved" doc:"Save indicator"`
	Value any    `json:"value" doc:"Current value"`
}

// FieldStateOutput wraps the field state for Huma.
type FieldStateOutput struct {
	Body FieldStateResponse
}

// === Handlers ===

func (s *Server) handleGetSettings(_ context.Context, _ *struct{}) (*SettingsOutput, error) {
	resp, err := s.settingsResponse()
	if err != nil {
		return nil, err
	}
	return &SettingsOutput{Body: resp}, nil
}

// Unknown names are rejected by the engine as VALIDATION, the same as in a batch.
func (s *Server) handleUpdateSetting(ctx context.Context, input *UpdateSettingInput) (*WriteOutput, error) {
	changes := map[domain.Field]any{domain.Field(input.Field): input.Body.Value}
	return s.write(ctx, changes, input.Wait)
}

func (s *Server) handleUpdateSettings(ctx context.Context, input *UpdateSettingsInput) (*WriteOutput, error) {
	changes := make(map[domain.Field]any, len(input.Body.Changes))
	for name, v := range input.Body.Changes {
		changes[domain.Field(name)] = v
	}
	return s.write(ctx, changes, input.Wait)
}

func (s *Server) handleGetSettingState(_ context.Context, input *FieldStateInput) (*FieldStateOutput, error) {
	f, err := parseField(input.Field)
	if err != nil {
		return nil, err
	}
	value, err := s.engine.Get(f)
	if err != nil {
		return nil, err
	}
	return &FieldStateOutput{
		Body: FieldStateResponse{
			Field: string(f),
			State: s.engine.FieldState(f).String(),
			Value: value,
		},
	}, nil
}

// write queues changes and, when wait is set, blocks until the store has
// answered for the write and its cascades. The write itself outlives the
// request so a dropped connection does not abort a toggle the user made.
func (s *Server) write(ctx context.Context, changes map[domain.Field]any, wait bool) (*WriteOutput, error) {
	w, err := s.engine.UpdateMany(context.WithoutCancel(ctx), changes)
	if err != nil {
		return nil, err
	}

	status := http.StatusAccepted
	var cascaded []string
	if wait {
		if err := w.WaitAll(ctx); err != nil {
			return nil, err
		}
		status = http.StatusOK
		for c := w.Cascade(); c != nil; c = c.Cascade() {
			for _, f := range c.Fields() {
				cascaded = append(cascaded, string(f))
			}
		}
	}

	view, err := s.settingsResponse()
	if err != nil {
		return nil, err
	}

	fields := make([]string, 0, len(w.Fields()))
	for _, f := range w.Fields() {
		fields = append(fields, string(f))
	}

	return &WriteOutput{
		Status: status,
		Body: WriteResponse{
			WriteID:       w.ID,
			Fields:        fields,
			Cascaded:      cascaded,
			Saved:         wait,
			Settings:      view.Settings,
			Pending:       view.Pending,
			RecentlySaved: view.RecentlySaved,
		},
	}, nil
}

func (s *Server) settingsResponse() (SettingsResponse, error) {
	snap, ok := s.engine.Snapshot()
	if !ok {
		return SettingsResponse{}, domainerrors.ErrNotInitialized
	}
	return SettingsResponse{
		Settings:      snap,
		Status:        s.engine.Status().String(),
		Pending:       fieldNames(s.engine.Pending()),
		RecentlySaved: fieldNames(s.engine.RecentlySaved()),
	}, nil
}
