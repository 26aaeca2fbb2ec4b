package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func registerResources(srv *server.MCPServer, svc *Service) {
	registerGroupsResource(srv, svc)
	registerGroupTemplate(srv, svc)
	registerMemberTemplate(srv, svc)
}

func registerGroupsResource(srv *server.MCPServer, svc *Service) {
	resource := mcp.NewResource(
		"prayteam://groups",
		"Groups",
		mcp.WithResourceDescription("All prayer groups the signed-in user belongs to."),
		mcp.WithMIMEType("application/json"),
	)

	srv.AddResource(resource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		groups, err := svc.ListGroups(ctx)
		if err != nil {
			return nil, err
		}

		payload := map[string]any{
			"groups": groups,
			"count":  len(groups),
		}
		return encodeResourceJSON(request.Params.URI, payload)
	})
}

func registerGroupTemplate(srv *server.MCPServer, svc *Service) {
	template := mcp.NewResourceTemplate(
		"prayteam://groups/{id}",
		"Group Members",
		mcp.WithTemplateDescription("The member roster of one group."),
		mcp.WithTemplateMIMEType("application/json"),
	)

	srv.AddResourceTemplate(template, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		id, _ := request.Params.Arguments["id"].(string)
		if id == "" {
			return nil, fmt.Errorf("group id is required")
		}

		groups, err := svc.ListGroups(ctx)
		if err != nil {
			return nil, err
		}
		for _, g := range groups {
			if g.ID == id {
				return encodeResourceJSON(request.Params.URI, map[string]any{
					"group": g,
				})
			}
		}
		return nil, fmt.Errorf("unknown group %q", id)
	})
}

func registerMemberTemplate(srv *server.MCPServer, svc *Service) {
	template := mcp.NewResourceTemplate(
		"prayteam://groups/{id}/{member}",
		"Member Prayers",
		mcp.WithTemplateDescription("One member's prayers, hidden slots included."),
		mcp.WithTemplateMIMEType("application/json"),
	)

	srv.AddResourceTemplate(template, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		id, _ := request.Params.Arguments["id"].(string)
		member, _ := request.Params.Arguments["member"].(string)
		if id == "" || member == "" {
			return nil, fmt.Errorf("group id and member are required")
		}

		prayers, err := svc.ListPrayers(ctx, id, member)
		if err != nil {
			return nil, err
		}

		payload := map[string]any{
			"group":   id,
			"member":  member,
			"prayers": prayers,
			"count":   len(prayers),
		}
		return encodeResourceJSON(request.Params.URI, payload)
	})
}

func encodeResourceJSON(uri string, payload any) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
