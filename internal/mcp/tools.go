package mcp

import "github.com/mark3labs/mcp-go/mcp"

// listDaysTool defines the list_days MCP tool.
var listDaysTool = mcp.NewTool("list_days",
	mcp.WithDescription("List the Academy Days event days that have content, with their labels."),
	mcp.WithString("lang",
		mcp.Description("Label language"),
		mcp.Enum("fr", "en"),
	),
)

// askHubbyTool defines the ask_hubby MCP tool.
var askHubbyTool = mcp.NewTool("ask_hubby",
	mcp.WithDescription("Ask the Academy Days assistant a question about the programme, groups, activities, dress code or Club Med Live."),
	mcp.WithString("question",
		mcp.Required(),
		mcp.Description("Free-text question, matched against the quick-action keywords"),
	),
	mcp.WithString("day",
		mcp.Description("Day identifier (defaults to the first available day)"),
	),
	mcp.WithString("lang",
		mcp.Description("Answer language (default fr)"),
		mcp.Enum("fr", "en"),
	),
	mcp.WithString("population",
		mcp.Description("Population tag used to filter spreadsheet rows, e.g. CDV"),
	),
)

// showActionTool defines the show_action MCP tool.
var showActionTool = mcp.NewTool("show_action",
	mcp.WithDescription("Show the content behind a quick-action button for a day, as if the button was clicked."),
	mcp.WithString("action",
		mcp.Required(),
		mcp.Description("Action identifier"),
		mcp.Enum("programme", "groupes", "activities", "dresscode", "clubmedlive"),
	),
	mcp.WithString("day",
		mcp.Description("Day identifier (defaults to the first available day)"),
	),
	mcp.WithString("lang",
		mcp.Description("Answer language (default fr)"),
		mcp.Enum("fr", "en"),
	),
	mcp.WithString("population",
		mcp.Description("Population tag used to filter spreadsheet rows"),
	),
)
