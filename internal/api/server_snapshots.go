package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/dgnsrekt/filmscope/internal/session"
	"github.com/dgnsrekt/filmscope/internal/snapshot"
)

func imageURL(id string) string { return "/api/v1/snapshots/" + id + "/image" }

func registerSnapshotHandlers(api huma.API, svc Service) {
	type takeSnapshotOutput struct {
		Body struct {
			Snapshot snapshot.Meta `json:"snapshot"`
			URL      string        `json:"url"`
		}
	}
	huma.Register(api, huma.Operation{OperationID: "export-chart", Method: http.MethodPost, Path: "/api/v1/exports", Summary: "Export a chart", Description: "Renders one chart for the current view state and stores it as a snapshot.", Tags: []string{"Snapshots"}},
		func(ctx context.Context, input *struct {
			Body struct {
				Chart  string `json:"chart" enum:"line-horror,line-nonhorror,radar,comparison-rt,comparison-metacritic"`
				Format string `json:"format,omitempty" enum:"svg,png" default:"svg"`
				Notes  string `json:"notes,omitempty" doc:"Free-form annotation for the snapshot"`
			}
		}) (*takeSnapshotOutput, error) {
			meta, err := svc.Export(ctx, session.ExportRequest{Chart: input.Body.Chart, Format: input.Body.Format, Notes: input.Body.Notes})
			if err != nil {
				return nil, mapErr(err)
			}
			out := &takeSnapshotOutput{}
			out.Body.Snapshot = meta
			out.Body.URL = imageURL(meta.ID)
			return out, nil
		})

	huma.Register(api, huma.Operation{OperationID: "browser-screenshot", Method: http.MethodPost, Path: "/api/v1/screenshots", Summary: "Screenshot the dashboard", Description: "Loads the dashboard in a headless browser and stores a PNG of the page or of one container.", Tags: []string{"Snapshots"}},
		func(ctx context.Context, input *struct {
			Body struct {
				Container string `json:"container,omitempty" doc:"Capture only this container" example:"radar-container"`
				Width     int    `json:"width,omitempty" minimum:"0" doc:"Viewport width"`
				Height    int    `json:"height,omitempty" minimum:"0" doc:"Viewport height"`
				Notes     string `json:"notes,omitempty" doc:"Free-form annotation for the snapshot"`
			}
		}) (*takeSnapshotOutput, error) {
			meta, err := svc.Screenshot(ctx, session.ScreenshotRequest{
				Container: input.Body.Container,
				Width:     input.Body.Width,
				Height:    input.Body.Height,
				Notes:     input.Body.Notes,
			})
			if err != nil {
				return nil, mapErr(err)
			}
			out := &takeSnapshotOutput{}
			out.Body.Snapshot = meta
			out.Body.URL = imageURL(meta.ID)
			return out, nil
		})

	type listSnapshotsOutput struct {
		Body struct {
			Snapshots []snapshot.Meta `json:"snapshots"`
		}
	}
	huma.Register(api, huma.Operation{OperationID: "list-snapshots", Method: http.MethodGet, Path: "/api/v1/snapshots", Summary: "List snapshots", Tags: []string{"Snapshots"}},
		func(ctx context.Context, input *struct{}) (*listSnapshotsOutput, error) {
			metas, err := svc.ListSnapshots(ctx)
			if err != nil {
				return nil, mapErr(err)
			}
			out := &listSnapshotsOutput{}
			out.Body.Snapshots = metas
			if out.Body.Snapshots == nil {
				out.Body.Snapshots = []snapshot.Meta{}
			}
			return out, nil
		})

	type snapshotIDInput struct {
		SnapshotID string `path:"snapshot_id"`
	}
	type getSnapshotOutput struct {
		Body snapshot.Meta
	}
	huma.Register(api, huma.Operation{OperationID: "get-snapshot", Method: http.MethodGet, Path: "/api/v1/snapshots/{snapshot_id}", Summary: "Get snapshot metadata", Tags: []string{"Snapshots"}},
		func(ctx context.Context, input *snapshotIDInput) (*getSnapshotOutput, error) {
			meta, err := svc.GetSnapshot(ctx, input.SnapshotID)
			if err != nil {
				return nil, mapErr(err)
			}
			out := &getSnapshotOutput{}
			out.Body = meta
			return out, nil
		})

	type snapshotImageOutput struct {
		ContentType string `header:"Content-Type"`
		Body        []byte
	}
	huma.Register(api, huma.Operation{
		OperationID: "get-snapshot-image",
		Method:      http.MethodGet,
		Path:        "/api/v1/snapshots/{snapshot_id}/image",
		Summary:     "Get snapshot image",
		Tags:        []string{"Snapshots"},
		Responses: map[string]*huma.Response{
			"200": {
				Description: "Snapshot image",
				Content: map[string]*huma.MediaType{
					"image/png":     {Schema: &huma.Schema{Type: "string", Format: "binary"}},
					"image/svg+xml": {Schema: &huma.Schema{Type: "string"}},
				},
			},
		},
	}, func(ctx context.Context, input *snapshotIDInput) (*snapshotImageOutput, error) {
		data, format, err := svc.ReadSnapshotImage(ctx, input.SnapshotID)
		if err != nil {
			return nil, mapErr(err)
		}
		return &snapshotImageOutput{ContentType: snapshot.ContentType(format), Body: data}, nil
	})

	type deleteSnapshotOutput struct {
		Body struct {
			Status string `json:"status"`
		}
	}
	huma.Register(api, huma.Operation{OperationID: "delete-snapshot", Method: http.MethodDelete, Path: "/api/v1/snapshots/{snapshot_id}", Summary: "Delete snapshot", Tags: []string{"Snapshots"}},
		func(ctx context.Context, input *snapshotIDInput) (*deleteSnapshotOutput, error) {
			if err := svc.DeleteSnapshot(ctx, input.SnapshotID); err != nil {
				return nil, mapErr(err)
			}
			out := &deleteSnapshotOutput{}
			out.Body.Status = "deleted"
			return out, nil
		})
}
