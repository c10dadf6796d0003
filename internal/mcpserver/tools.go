// Package mcpserver registers MCP tools that expose the notes of the
// current folder. Every tool runs on the controller loop, so MCP clients
// see the same in-memory notes as the terminal.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/alexjbarnes/noted/internal/index"
	"github.com/alexjbarnes/noted/internal/notebook"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// RegisterTools adds all note tools to the given MCP server.
func RegisterTools(server *mcp.Server, ctrl *notebook.Controller) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "notes_list",
		Description: "List the notes of the current folder with metadata (file name, name, modified, unsaved, tags). No note text. Optionally filter by a case-insensitive query on name and text, and by a front matter tag.",
	}, listHandler(ctrl))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "notes_read",
		Description: "Read the text of a note by file name, including unsaved edits. Encrypted notes are returned in their encrypted form.",
	}, readHandler(ctrl))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "notes_current",
		Description: "Return the note currently open in the editor.",
	}, currentHandler(ctrl))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "notes_save",
		Description: "Replace the full text of a note and store it at once. A missing note is created. Encrypted notes cannot be written.",
	}, saveHandler(ctrl))
}

// --- Input types ---
// The MCP SDK infers JSON schema from these struct types via jsonschema tags.

// ListInput holds parameters for notes_list.
type ListInput struct {
	Query string `json:"query,omitempty" jsonschema:"case-insensitive text matched against note name and text"`
	Tag   string `json:"tag,omitempty" jsonschema:"front matter tag without the leading #"`
}

// ReadInput holds parameters for notes_read.
type ReadInput struct {
	FileName string `json:"file_name" jsonschema:"required,note file name including extension"`
}

// CurrentInput has no parameters.
type CurrentInput struct{}

// SaveInput holds parameters for notes_save.
type SaveInput struct {
	FileName string `json:"file_name" jsonschema:"required,note file name ending in .md or .txt"`
	Text     string `json:"text" jsonschema:"required,full note text"`
}

// --- Result types ---

// NoteInfo describes a note without its text.
type NoteInfo struct {
	FileName  string    `json:"file_name"`
	Name      string    `json:"name"`
	Modified  time.Time `json:"modified"`
	Unsaved   bool      `json:"unsaved"`
	Encrypted bool      `json:"encrypted"`
	Tags      []string  `json:"tags,omitempty"`
}

// ListResult is returned by notes_list.
type ListResult struct {
	Folder string     `json:"folder"`
	Total  int        `json:"total"`
	Notes  []NoteInfo `json:"notes"`
}

// ReadResult is returned by notes_read and notes_current.
type ReadResult struct {
	FileName  string    `json:"file_name"`
	Name      string    `json:"name"`
	Modified  time.Time `json:"modified"`
	Unsaved   bool      `json:"unsaved"`
	Encrypted bool      `json:"encrypted"`
	Tags      []string  `json:"tags,omitempty"`
	Text      string    `json:"text"`
}

// SaveResult is returned by notes_save.
type SaveResult struct {
	FileName string `json:"file_name"`
	Size     int    `json:"size"`
}

// --- Handlers ---

func listHandler(ctrl *notebook.Controller) mcp.ToolHandlerFor[ListInput, *ListResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input ListInput) (*mcp.CallToolResult, *ListResult, error) {
		var (
			notes []*index.Note
			dir   string
			err   error
		)

		if derr := ctrl.Do(ctx, func() {
			notes, err = ctrl.SearchNotes(input.Query, input.Tag)
			dir = ctrl.Folder().Dir()
		}); derr != nil {
			return nil, nil, derr
		}

		if err != nil {
			return nil, nil, err
		}

		result := &ListResult{Folder: dir, Total: len(notes), Notes: make([]NoteInfo, 0, len(notes))}
		for _, n := range notes {
			result.Notes = append(result.Notes, noteInfo(n))
		}

		return textResult(result), result, nil
	}
}

func readHandler(ctrl *notebook.Controller) mcp.ToolHandlerFor[ReadInput, *ReadResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input ReadInput) (*mcp.CallToolResult, *ReadResult, error) {
		var (
			n   *index.Note
			err error
		)

		if derr := ctrl.Do(ctx, func() {
			n, err = ctrl.Note(input.FileName)
		}); derr != nil {
			return nil, nil, derr
		}

		if err != nil {
			return nil, nil, fmt.Errorf("reading %s: %w", input.FileName, err)
		}

		result := readResult(n)

		return textResult(result), result, nil
	}
}

func currentHandler(ctrl *notebook.Controller) mcp.ToolHandlerFor[CurrentInput, *ReadResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ CurrentInput) (*mcp.CallToolResult, *ReadResult, error) {
		var (
			n   *index.Note
			err error
		)

		if derr := ctrl.Do(ctx, func() {
			n, err = ctrl.CurrentNote()
		}); derr != nil {
			return nil, nil, derr
		}

		if err != nil {
			return nil, nil, err
		}

		result := readResult(n)

		return textResult(result), result, nil
	}
}

func saveHandler(ctrl *notebook.Controller) mcp.ToolHandlerFor[SaveInput, *SaveResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input SaveInput) (*mcp.CallToolResult, *SaveResult, error) {
		var err error

		if derr := ctrl.Do(ctx, func() {
			err = ctrl.SaveNoteText(input.FileName, input.Text)
		}); derr != nil {
			return nil, nil, derr
		}

		if err != nil {
			return nil, nil, err
		}

		result := &SaveResult{FileName: input.FileName, Size: len(input.Text)}

		return textResult(result), result, nil
	}
}

func readResult(n *index.Note) *ReadResult {
	info := noteInfo(n)

	return &ReadResult{
		FileName:  info.FileName,
		Name:      info.Name,
		Modified:  info.Modified,
		Unsaved:   info.Unsaved,
		Encrypted: info.Encrypted,
		Tags:      info.Tags,
		Text:      n.Text,
	}
}

func noteInfo(n *index.Note) NoteInfo {
	return NoteInfo{
		FileName:  n.FileName,
		Name:      n.Name,
		Modified:  n.Modified,
		Unsaved:   n.Dirty,
		Encrypted: notebook.IsEncrypted(n.Text),
		Tags:      n.Tags,
	}
}

// textResult builds a CallToolResult with JSON text content from any value.
// This provides the unstructured content alongside the structured output
// that the SDK populates automatically.
func textResult(v any) *mcp.CallToolResult {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: fmt.Sprintf("error marshaling result: %v", err)}},
			IsError: true,
		}
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
	}
}
