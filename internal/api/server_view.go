package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/dgnsrekt/filmscope/internal/session"
	"github.com/dgnsrekt/filmscope/internal/viewstate"
)

type intentBody struct {
	Type   string `json:"type" doc:"Intent type" enum:"select_score_key,toggle_all_scores,toggle_radar,close_radar,hover_film,clear_hover,focus_film,set_comparison_sort,set_comparison_limit"`
	Key    string `json:"key,omitempty" doc:"Score key for select_score_key" example:"RT Critic Score"`
	FilmID *int   `json:"film_id,omitempty" doc:"Film ID for hover_film and focus_film"`
	Mode   string `json:"mode,omitempty" doc:"Sort mode for set_comparison_sort" example:"abs-diff"`
	Limit  any    `json:"limit,omitempty" doc:"Display count for set_comparison_limit: a positive integer or \"all\""`
}

func (b intentBody) decode() (viewstate.Intent, error) {
	raw, err := json.Marshal(b)
	if err != nil {
		return nil, err
	}
	return viewstate.DecodeIntent(raw)
}

func registerViewHandlers(api huma.API, svc Service) {
	type healthOutput struct {
		Body session.Health
	}
	huma.Register(api, huma.Operation{OperationID: "health", Method: http.MethodGet, Path: "/api/v1/health", Summary: "Load status", Tags: []string{"Health"}},
		func(ctx context.Context, input *struct {
			Deep bool `query:"deep" doc:"Also probe the screenshot browser"`
		}) (*healthOutput, error) {
			out := &healthOutput{}
			out.Body = svc.Health(ctx, input.Deep)
			return out, nil
		})

	type stateOutput struct {
		Body viewstate.State
	}
	huma.Register(api, huma.Operation{OperationID: "get-state", Method: http.MethodGet, Path: "/api/v1/state", Summary: "Current view state and comparison settings", Tags: []string{"View"}},
		func(ctx context.Context, input *struct{}) (*stateOutput, error) {
			out := &stateOutput{}
			out.Body = svc.State()
			return out, nil
		})

	huma.Register(api, huma.Operation{OperationID: "dispatch-intent", Method: http.MethodPost, Path: "/api/v1/intents", Summary: "Dispatch one intent", Description: "Applies the intent, re-renders every container and publishes the new frame to live clients. Returns the next state.", Tags: []string{"View"}},
		func(ctx context.Context, input *struct {
			Body intentBody
		}) (*stateOutput, error) {
			in, err := input.Body.decode()
			if err != nil {
				return nil, huma.Error400BadRequest(err.Error())
			}
			next, err := svc.Dispatch(ctx, in)
			if err != nil {
				return nil, mapErr(err)
			}
			out := &stateOutput{}
			out.Body = next
			return out, nil
		})

	huma.Register(api, huma.Operation{OperationID: "reload-data", Method: http.MethodPost, Path: "/api/v1/reload", Summary: "Reload film data", Description: "Shows the loading overlay and fetches both datasets again.", Tags: []string{"View"}},
		func(ctx context.Context, input *struct{}) (*healthOutput, error) {
			if err := svc.Reload(ctx); err != nil {
				return nil, mapErr(err)
			}
			out := &healthOutput{}
			out.Body = svc.Health(ctx, false)
			return out, nil
		})

	type containerOutput struct {
		Body struct {
			ID   string `json:"id"`
			HTML string `json:"html"`
		}
	}
	huma.Register(api, huma.Operation{OperationID: "get-container", Method: http.MethodGet, Path: "/api/v1/containers/{container_id}", Summary: "Rendered content of one container", Tags: []string{"View"}},
		func(ctx context.Context, input *struct {
			ContainerID string `path:"container_id" example:"graph-container"`
		}) (*containerOutput, error) {
			html, err := svc.Fragment(ctx, input.ContainerID)
			if err != nil {
				return nil, mapErr(err)
			}
			out := &containerOutput{}
			out.Body.ID = input.ContainerID
			out.Body.HTML = html
			return out, nil
		})
}
