// Package mcp exposes the reading log to MCP clients as read-only tools.
package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"booklog/internal/catalog"
	"booklog/internal/core"
	"booklog/internal/log"
)

// Snapshotter is the part of the catalog the tools read from.
type Snapshotter interface {
	Snapshot() (*catalog.Snapshot, error)
}

// NewServer builds an MCP server with every reading-log tool registered.
func NewServer(cat Snapshotter, version string, logger *log.Logger) *server.MCPServer {
	s := server.NewMCPServer(
		"booklog-mcp",
		version,
		server.WithToolCapabilities(true),
	)
	RegisterTools(s, cat, logger)
	return s
}

// RegisterTools adds the read-only reading-log tools to s.
func RegisterTools(s *server.MCPServer, cat Snapshotter, logger *log.Logger) {
	if logger == nil {
		logger = log.Discard()
	}
	logger = logger.WithComponent(log.ComponentMCP)

	s.AddTool(booksInMonthTool(), booksInMonthHandler(cat, logger))
	s.AddTool(adjacentMonthsTool(), adjacentMonthsHandler())
	s.AddTool(allMonthsTool(), allMonthsHandler(cat))
}

// --- books_in_month ---

func booksInMonthTool() mcp.Tool {
	return mcp.NewTool("books_in_month",
		mcp.WithDescription("List the books logged in a month, grouped by day. Out-of-range months are normalised (2023/13 is 2024/01)."),
		mcp.WithNumber("year",
			mcp.Description("Four-digit year"),
			mcp.Required(),
		),
		mcp.WithNumber("month",
			mcp.Description("Month number, 1-12"),
			mcp.Required(),
		),
	)
}

func booksInMonthHandler(cat Snapshotter, logger *log.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		scope, err := monthArgs(req)
		if err != nil {
			return toolError(err)
		}
		snap, err := cat.Snapshot()
		if err != nil {
			return toolError(err)
		}

		days := snap.Days(scope)
		logger.DebugContext(ctx, "books_in_month",
			log.FieldYear, scope.Year,
			log.FieldMonth, scope.Month,
			log.FieldBooks, days.Count())

		if days.Count() == 0 {
			return mcp.NewToolResultText(fmt.Sprintf("No books in %s.", scope)), nil
		}
		var sb strings.Builder
		fmt.Fprintf(&sb, "%s (%d books)\n", scope, days.Count())
		if err := core.WriteDays(&sb, days); err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

// --- adjacent_months ---

func adjacentMonthsTool() mcp.Tool {
	return mcp.NewTool("adjacent_months",
		mcp.WithDescription("Return the previous and next month of a month, with their detail page paths."),
		mcp.WithNumber("year",
			mcp.Description("Four-digit year"),
			mcp.Required(),
		),
		mcp.WithNumber("month",
			mcp.Description("Month number, 1-12"),
			mcp.Required(),
		),
	)
}

func adjacentMonthsHandler() server.ToolHandlerFunc {
	return func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		scope, err := monthArgs(req)
		if err != nil {
			return toolError(err)
		}
		prev, next := core.PreviousMonth(scope), core.NextMonth(scope)
		return mcp.NewToolResultText(fmt.Sprintf(
			"previous: %s  %s\nnext: %s  %s\n",
			prev, prev.Path(), next, next.Path())), nil
	}
}

// --- all_months ---

func allMonthsTool() mcp.Tool {
	return mcp.NewTool("all_months",
		mcp.WithDescription("List every month that has books, oldest first, with its book count."),
	)
}

func allMonthsHandler(cat Snapshotter) server.ToolHandlerFunc {
	return func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		snap, err := cat.Snapshot()
		if err != nil {
			return toolError(err)
		}
		if len(snap.Months) == 0 {
			return mcp.NewToolResultText("No books yet."), nil
		}

		var sb strings.Builder
		for _, m := range snap.Months {
			fmt.Fprintf(&sb, "%s  %d books  %s\n", m.Scope, m.Days.Count(), m.Scope.Path())
		}
		if snap.Undated > 0 {
			fmt.Fprintf(&sb, "%d undated records are not shown.\n", snap.Undated)
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

// --- helpers ---

func monthArgs(req mcp.CallToolRequest) (core.MonthScope, error) {
	year, err := req.RequireInt("year")
	if err != nil {
		return core.MonthScope{}, err
	}
	month, err := req.RequireInt("month")
	if err != nil {
		return core.MonthScope{}, err
	}
	return core.NormalizeMonth(year, month), nil
}

func toolError(err error) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultError(err.Error()), nil
}
