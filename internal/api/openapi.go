package api

import (
	"fmt"

	"github.com/JaimeStill/quill/internal/config"
	"github.com/JaimeStill/quill/pkg/openapi"
)

// buildSpec constructs the OpenAPI document for the API module.
func buildSpec(cfg *config.Config) ([]byte, error) {
	spec := openapi.NewSpec(cfg.API.OpenAPI.Title, cfg.Version)
	spec.SetDescription(cfg.API.OpenAPI.Description)
	spec.AddServer(cfg.API.BasePath)

	spec.Components.AddSchemas(map[string]*openapi.Schema{
		"SubmitCommand": {
			Type:     "object",
			Required: []string{"request_text", "content_types"},
			Properties: map[string]*openapi.Schema{
				"request_text": {Type: "string", Description: "What to produce"},
				"content_types": {
					Type:        "array",
					Items:       &openapi.Schema{Type: "string"},
					Description: "Deliverable content types. More than one selects the campaign workflow.",
				},
				"priority":          {Type: "string", Enum: []any{"normal", "high", "urgent"}},
				"deadline":          {Type: "string", Format: "date-time"},
				"audience":          {Type: "string"},
				"tone":              {Type: "string"},
				"advisory_override": {Type: "boolean", Description: "Force all quality gates to advisory for this run"},
			},
		},
		"Run": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":           {Type: "string", Format: "uuid"},
				"workflow":     {Type: "string"},
				"version":      {Type: "string"},
				"status":       {Type: "string", Enum: []any{"running", "succeeded", "failed"}},
				"steps":        {Type: "array", Items: &openapi.Schema{Type: "object"}},
				"error":        {Type: "string"},
				"submitted_at": {Type: "string", Format: "date-time"},
				"completed_at": {Type: "string", Format: "date-time"},
			},
		},
		"Template": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"name":        {Type: "string"},
				"displayName": {Type: "string"},
				"description": {Type: "string"},
				"colors":      {Type: "object"},
				"typography":  {Type: "object"},
				"companyName": {Type: "string"},
			},
		},
	})

	registerRunPaths(spec)
	registerTemplatePaths(spec)

	data, err := openapi.MarshalJSON(spec)
	if err != nil {
		return nil, fmt.Errorf("marshal openapi spec: %w", err)
	}
	return data, nil
}

func registerRunPaths(spec *openapi.Spec) {
	spec.Paths["/runs"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary: "List runs",
			Tags:    []string{"runs"},
			Parameters: []*openapi.Parameter{
				openapi.QueryParam("page", "integer", "Page number", false),
				openapi.QueryParam("page_size", "integer", "Results per page", false),
				openapi.QueryParam("workflow", "string", "Filter by workflow name", false),
				openapi.QueryParam("status", "string", "Filter by run status", false),
			},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Paginated runs", "Run"),
			},
		},
		Post: &openapi.Operation{
			Summary:     "Submit a content request",
			Description: "Selects a workflow for the requested content types, executes it, and returns the settled run.",
			Tags:        []string{"runs"},
			RequestBody: openapi.RequestBodyJSON("SubmitCommand", true),
			Responses: map[int]*openapi.Response{
				201: openapi.ResponseJSON("Settled run", "Run"),
				400: openapi.ResponseRef("BadRequest"),
			},
		},
	}

	spec.Paths["/runs/workflows"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary: "List executable workflow definitions",
			Tags:    []string{"runs"},
			Responses: map[int]*openapi.Response{
				200: {Description: "Workflow definitions"},
			},
		},
	}

	spec.Paths["/runs/{id}/steps"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:    "List a run's step results",
			Tags:       []string{"runs"},
			Parameters: []*openapi.Parameter{openapi.PathParam("id", "Run identifier")},
			Responses: map[int]*openapi.Response{
				200: {Description: "Step results in execution order"},
				404: openapi.ResponseRef("NotFound"),
			},
		},
	}

	spec.Paths["/content-types"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary: "List supported content types",
			Tags:    []string{"runs"},
			Responses: map[int]*openapi.Response{
				200: {Description: "Content type tags the catalog accepts"},
			},
		},
	}

	spec.Paths["/runs/{id}"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:    "Find a run",
			Tags:       []string{"runs"},
			Parameters: []*openapi.Parameter{openapi.PathParam("id", "Run identifier")},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Run", "Run"),
				404: openapi.ResponseRef("NotFound"),
			},
		},
		Delete: &openapi.Operation{
			Summary:    "Delete a run",
			Tags:       []string{"runs"},
			Parameters: []*openapi.Parameter{openapi.PathParam("id", "Run identifier")},
			Responses: map[int]*openapi.Response{
				204: {Description: "Deleted"},
				404: openapi.ResponseRef("NotFound"),
			},
		},
	}
}

func registerTemplatePaths(spec *openapi.Spec) {
	spec.Paths["/templates"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary: "List brand templates",
			Tags:    []string{"templates"},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Brand templates", "Template"),
			},
		},
	}

	spec.Paths["/templates/{name}"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary: "Find a brand template",
			Tags:    []string{"templates"},
			Parameters: []*openapi.Parameter{
				{
					Name:     "name",
					In:       "path",
					Required: true,
					Schema:   &openapi.Schema{Type: "string"},
				},
			},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Brand template", "Template"),
				404: openapi.ResponseRef("NotFound"),
			},
		},
	}
}
