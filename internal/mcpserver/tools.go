package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// registerTools adds the four person-query tools to the MCP server.
// Every handler resolves through the dispatcher so the envelope semantics
// (failure flag, argument validation, invocation events) stay in one place.
func (s *Server) registerTools() {
	s.addSearchPeopleTool()
	s.addGetPersonDetailsTool()
	s.addSearchByImageTool()
	s.addListAllPeopleTool()
}

func (s *Server) addSearchPeopleTool() {
	s.mcp.AddTool(
		&mcp.Tool{
			Name: OpSearch,
			Description: `Search for people using a natural-language query.

The query is decomposed into search fields automatically:
• emails and phone numbers are recognized anywhere in the text
• "works at X" / "from company X" filters by company
• "title is X" / "role X" / "position X" filters by title
• "in X" / "from X" filters by location
• anything else is treated as a person's name

Multiple recognized fields narrow the search (all must match).
Queries mentioning an image, photo, or picture are redirected to the
image lookup when the query carries an email.

EXAMPLE INPUTS:
• {"query": "who works at Tech Corp"}
• {"query": "find the person with email john@example.com"}
• {"query": "tell me about Alice Johnson"}`,
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"query": map[string]any{
						"type":        "string",
						"description": "Natural-language description of the person to find.",
					},
					"limit": map[string]any{
						"type":        "integer",
						"description": "Maximum number of results (default 10, max 100).",
					},
				},
				"required": []string{"query"},
			},
			Annotations: &mcp.ToolAnnotations{
				ReadOnlyHint:   true,
				IdempotentHint: true,
				OpenWorldHint:  boolPtr(false),
				Title:          "Search People",
			},
		},
		s.handleTool(OpSearch),
	)
}

func (s *Server) addGetPersonDetailsTool() {
	s.mcp.AddTool(
		&mcp.Tool{
			Name: OpGetDetails,
			Description: `Get the full profile for a person identified by email.

Returns a labeled report: basic fields (name, email, phone, company, title,
location) always, plus extended fields (bio, alternate emails, social
profiles, organizations) when the directory has them. Absent basic fields
show as N/A. A missing person is a normal answer, not an error.

EXAMPLE INPUT: {"email": "john@example.com"}`,
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"email": map[string]any{
						"type":        "string",
						"description": "Email address identifying the person.",
					},
				},
				"required": []string{"email"},
			},
			Annotations: &mcp.ToolAnnotations{
				ReadOnlyHint:   true,
				IdempotentHint: true,
				OpenWorldHint:  boolPtr(false),
				Title:          "Get Person Details",
			},
		},
		s.handleTool(OpGetDetails),
	)
}

func (s *Server) addSearchByImageTool() {
	s.mcp.AddTool(
		&mcp.Tool{
			Name: OpImage,
			Description: `Check whether a stored image exists for an email address.

Reports the image (size and content type) and then the associated person's
profile. Either can be absent; both absences are normal answers.

EXAMPLE INPUT: {"email": "john@example.com"}`,
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"email": map[string]any{
						"type":        "string",
						"description": "Email address the image is stored under.",
					},
				},
				"required": []string{"email"},
			},
			Annotations: &mcp.ToolAnnotations{
				ReadOnlyHint:   true,
				IdempotentHint: true,
				OpenWorldHint:  boolPtr(false),
				Title:          "Search By Image",
			},
		},
		s.handleTool(OpImage),
	)
}

func (s *Server) addListAllPeopleTool() {
	s.mcp.AddTool(
		&mcp.Tool{
			Name: OpListAll,
			Description: `List people in the directory as a numbered summary.

EXAMPLE INPUTS:
• {} (first 10 people)
• {"limit": 50}`,
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"limit": map[string]any{
						"type":        "integer",
						"description": "Maximum number of people to list (default 10, max 100).",
					},
				},
			},
			Annotations: &mcp.ToolAnnotations{
				ReadOnlyHint:   true,
				IdempotentHint: true,
				OpenWorldHint:  boolPtr(false),
				Title:          "List All People",
			},
		},
		s.handleTool(OpListAll),
	)
}

// handleTool adapts a dispatcher operation to the SDK handler signature.
func (s *Server) handleTool(op string) mcp.ToolHandler {
	return func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		res := s.dispatcher.Dispatch(ctx, op, req.Params.Arguments)
		if res.IsError {
			return errorResult(res.Text), nil
		}
		return textResult(res.Text), nil
	}
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}
}

// errorResult creates an IsError CallToolResult so the client can see the
// failure text and self-correct rather than raising a protocol-level error.
func errorResult(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: msg},
		},
		IsError: true,
	}
}

func boolPtr(b bool) *bool { return &b }
