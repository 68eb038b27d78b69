package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/dgnsrekt/filmscope/internal/session"
)

type filmIDInput struct {
	FilmID int `path:"film_id" minimum:"0"`
}

func registerFilmHandlers(api huma.API, svc Service) {
	type listFilmsOutput struct {
		Body struct {
			Films []session.FilmView `json:"films"`
		}
	}
	huma.Register(api, huma.Operation{OperationID: "list-films", Method: http.MethodGet, Path: "/api/v1/films", Summary: "List films", Tags: []string{"Films"}},
		func(ctx context.Context, input *struct {
			Dataset string `query:"dataset" enum:"horror,non-horror" doc:"Restrict to one dataset"`
		}) (*listFilmsOutput, error) {
			list, err := svc.Films(ctx, input.Dataset)
			if err != nil {
				return nil, mapErr(err)
			}
			out := &listFilmsOutput{}
			out.Body.Films = list
			if out.Body.Films == nil {
				out.Body.Films = []session.FilmView{}
			}
			return out, nil
		})

	type filmOutput struct {
		Body session.FilmView
	}
	huma.Register(api, huma.Operation{OperationID: "get-film", Method: http.MethodGet, Path: "/api/v1/films/{film_id}", Summary: "Get one film", Tags: []string{"Films"}},
		func(ctx context.Context, input *filmIDInput) (*filmOutput, error) {
			f, err := svc.Film(ctx, input.FilmID)
			if err != nil {
				return nil, mapErr(err)
			}
			out := &filmOutput{}
			out.Body = f
			return out, nil
		})

	type tooltipOutput struct {
		Body struct {
			FilmID int    `json:"film_id"`
			HTML   string `json:"html"`
		}
	}
	huma.Register(api, huma.Operation{OperationID: "get-film-tooltip", Method: http.MethodGet, Path: "/api/v1/films/{film_id}/tooltip", Summary: "Tooltip HTML for a film", Description: "With critic and audience keys the tooltip describes the score difference.", Tags: []string{"Films"}},
		func(ctx context.Context, input *struct {
			FilmID   int    `path:"film_id" minimum:"0"`
			Critic   string `query:"critic" example:"RT Critic Score"`
			Audience string `query:"audience" example:"RT Audience Score"`
		}) (*tooltipOutput, error) {
			html, err := svc.Tooltip(ctx, input.FilmID, input.Critic, input.Audience)
			if err != nil {
				return nil, mapErr(err)
			}
			out := &tooltipOutput{}
			out.Body.FilmID = input.FilmID
			out.Body.HTML = html
			return out, nil
		})

	type comparisonOutput struct {
		Body session.ComparisonView
	}
	huma.Register(api, huma.Operation{OperationID: "get-comparison", Method: http.MethodGet, Path: "/api/v1/comparison", Summary: "Comparison rows", Description: "Sorted and truncated critic/audience rows. Omitted parameters use the session's comparison settings and the Rotten Tomatoes pair.", Tags: []string{"Films"}},
		func(ctx context.Context, input *struct {
			Critic   string `query:"critic" example:"Metacritic Critic Score"`
			Audience string `query:"audience" example:"Metacritic Audience Score"`
			Sort     string `query:"sort" enum:"abs-diff,critic-higher,audience-higher,year-asc,year-desc"`
			Limit    string `query:"limit" doc:"Positive integer or all" example:"20"`
		}) (*comparisonOutput, error) {
			view, err := svc.Comparison(ctx, session.ComparisonQuery{
				Critic:   input.Critic,
				Audience: input.Audience,
				Sort:     input.Sort,
				Limit:    input.Limit,
			})
			if err != nil {
				return nil, mapErr(err)
			}
			out := &comparisonOutput{}
			out.Body = view
			return out, nil
		})
}
