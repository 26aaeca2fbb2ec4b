package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func registerTools(srv *server.MCPServer, svc *Service) {
	registerListGroupsTool(srv, svc)
	registerListPrayersTool(srv, svc)
	registerListAllPrayersTool(srv, svc)
	registerAddPrayerTool(srv, svc)
	registerUpdateStatusTool(srv, svc)
	registerSaveNoteTool(srv, svc)
	registerArchivePrayerTool(srv, svc)
	registerRestorePrayerTool(srv, svc)
}

func registerListGroupsTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"list_groups",
		mcp.WithDescription("List the prayer groups the signed-in user belongs to."),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		groups, err := svc.ListGroups(ctx)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(map[string]any{
			"groups": groups,
			"count":  len(groups),
		})
	})
}

func registerListPrayersTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"list_prayers",
		mcp.WithDescription("List one member's prayers, hidden slots included."),
		mcp.WithString("group",
			mcp.Required(),
			mcp.Description("Group identifier."),
		),
		mcp.WithString("member",
			mcp.Required(),
			mcp.Description("Member name within the group."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		groupID, err := request.RequireString("group")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		member, err := request.RequireString("member")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		prayers, err := svc.ListPrayers(ctx, groupID, member)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(map[string]any{
			"group":   groupID,
			"member":  member,
			"prayers": prayers,
			"count":   len(prayers),
		})
	})
}

func registerListAllPrayersTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"list_all_prayers",
		mcp.WithDescription("List visible prayers across every group, grouped per member."),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		sections, err := svc.ListAllPrayers(ctx)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(map[string]any{
			"sections": sections,
			"count":    len(sections),
		})
	})
}

func registerAddPrayerTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"add_prayer",
		mcp.WithDescription("Append a new prayer to a member's record."),
		mcp.WithString("group",
			mcp.Required(),
			mcp.Description("Group identifier."),
		),
		mcp.WithString("member",
			mcp.Required(),
			mcp.Description("Member name within the group."),
		),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("Prayer text to record."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args struct {
			Group  string `json:"group"`
			Member string `json:"member"`
			Text   string `json:"text"`
		}
		if err := request.BindArguments(&args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}

		prayers, err := svc.AddPrayer(ctx, args.Group, args.Member, args.Text)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(map[string]any{
			"group":   args.Group,
			"member":  args.Member,
			"prayers": prayers,
			"count":   len(prayers),
		})
	})
}

func registerUpdateStatusTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"update_status",
		mcp.WithDescription("Set the response status of one prayer."),
		mcp.WithString("group",
			mcp.Required(),
			mcp.Description("Group identifier."),
		),
		mcp.WithString("member",
			mcp.Required(),
			mcp.Description("Member name within the group."),
		),
		mcp.WithNumber("index",
			mcp.Required(),
			mcp.Description("Server-assigned prayer index."),
			mcp.Min(1),
		),
		mcp.WithString("status",
			mcp.Required(),
			mcp.Description("New status, by English meaning or stored token."),
			mcp.Enum("pending", "answered", "redirected", "declined"),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		groupID, member, index, err := slotArgs(request)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		statusRaw, err := request.RequireString("status")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		status, err := ParseStatusInput(statusRaw)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		dto, err := svc.UpdateStatus(ctx, groupID, member, index, status)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerSaveNoteTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"save_note",
		mcp.WithDescription("Attach or replace the note on one prayer."),
		mcp.WithString("group",
			mcp.Required(),
			mcp.Description("Group identifier."),
		),
		mcp.WithString("member",
			mcp.Required(),
			mcp.Description("Member name within the group."),
		),
		mcp.WithNumber("index",
			mcp.Required(),
			mcp.Description("Server-assigned prayer index."),
			mcp.Min(1),
		),
		mcp.WithString("note",
			mcp.Description("Note text. An empty note clears the existing one."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		groupID, member, index, err := slotArgs(request)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		note := request.GetString("note", "")

		dto, err := svc.SaveNote(ctx, groupID, member, index, note)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerArchivePrayerTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"archive_prayer",
		mcp.WithDescription("Hide one prayer from the visible list."),
		mcp.WithString("group",
			mcp.Required(),
			mcp.Description("Group identifier."),
		),
		mcp.WithString("member",
			mcp.Required(),
			mcp.Description("Member name within the group."),
		),
		mcp.WithNumber("index",
			mcp.Required(),
			mcp.Description("Server-assigned prayer index."),
			mcp.Min(1),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		groupID, member, index, err := slotArgs(request)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		dto, err := svc.ArchivePrayer(ctx, groupID, member, index)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerRestorePrayerTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"restore_prayer",
		mcp.WithDescription("Bring an archived prayer back to the visible list."),
		mcp.WithString("group",
			mcp.Required(),
			mcp.Description("Group identifier."),
		),
		mcp.WithString("member",
			mcp.Required(),
			mcp.Description("Member name within the group."),
		),
		mcp.WithNumber("index",
			mcp.Required(),
			mcp.Description("Server-assigned prayer index."),
			mcp.Min(1),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		groupID, member, index, err := slotArgs(request)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		dto, err := svc.RestorePrayer(ctx, groupID, member, index)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func slotArgs(request mcp.CallToolRequest) (groupID, member string, index int, err error) {
	if groupID, err = request.RequireString("group"); err != nil {
		return "", "", 0, err
	}
	if member, err = request.RequireString("member"); err != nil {
		return "", "", 0, err
	}
	index = request.GetInt("index", 0)
	if index < 1 {
		return "", "", 0, fmt.Errorf("index must be a positive integer")
	}
	if strings.TrimSpace(member) == "" {
		return "", "", 0, fmt.Errorf("member is required")
	}
	return groupID, member, index, nil
}

func toJSONResult(data any) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(data)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("marshal error: %v", err)), nil
	}
	return result, nil
}
