package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/academydays/hubby/internal/chat"
	"github.com/academydays/hubby/internal/config"
	"github.com/academydays/hubby/internal/knowledge"
	"github.com/academydays/hubby/internal/lang"
	"github.com/academydays/hubby/internal/render"
)

// handleListDays lists the days with content.
func (s *Server) handleListDays(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	l := lang.Parse(request.GetString("lang", s.cfg.DefaultLanguage))
	res := s.loader.Load(ctx)

	days := chat.AvailableDays(s.cfg, res.Doc)
	if len(days) == 0 {
		return mcp.NewToolResultText(s.renderer.Apology(res.Doc, l).Text()), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# Academy Days (%s)\n\n", res.Origin)
	for _, d := range days {
		fmt.Fprintf(&sb, "- %s: %s\n", d.ID, d.Labels.Get(l))
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// handleAskHubby matches the question to an action and renders the answer.
func (s *Server) handleAskHubby(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	question, err := request.RequireString("question")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: question"), nil
	}

	l := lang.Parse(request.GetString("lang", s.cfg.DefaultLanguage))
	res := s.loader.Load(ctx)

	action, ok := s.matcher.Match(question, l)
	if !ok {
		return mcp.NewToolResultText(s.renderer.Apology(res.Doc, l).Text()), nil
	}
	return s.answer(res.Doc, request, action, l), nil
}

// handleShowAction renders an action directly.
func (s *Server) handleShowAction(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	action, err := request.RequireString("action")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: action"), nil
	}
	if _, ok := s.cfg.Action(action); !ok {
		return mcp.NewToolResultError(fmt.Sprintf("unknown action %q", action)), nil
	}

	l := lang.Parse(request.GetString("lang", s.cfg.DefaultLanguage))
	return s.answer(s.loader.Load(ctx).Doc, request, action, l), nil
}

func (s *Server) answer(doc *knowledge.Document, request mcp.CallToolRequest, action string, l lang.Language) *mcp.CallToolResult {
	day := request.GetString("day", "")
	if day == "" {
		day = firstDay(chat.AvailableDays(s.cfg, doc))
	}
	b := s.renderer.Render(doc, render.Query{
		Day:        day,
		Action:     action,
		Lang:       l,
		Population: request.GetString("population", ""),
	})
	return mcp.NewToolResultText(b.Text())
}

func firstDay(days []config.Day) string {
	if len(days) == 0 {
		return ""
	}
	return days[0].ID
}
