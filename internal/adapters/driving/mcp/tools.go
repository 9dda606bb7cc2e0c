package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/unisearch/internal/core/domain"
)

// excerptLength caps the content returned per search result.
const excerptLength = 500

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Question string `json:"question" jsonschema:"the question to answer from the loaded prospectuses"`
	TopK     int    `json:"top_k,omitempty" jsonschema:"number of documents to use as context (default from settings)"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Answer            string            `json:"answer"`
	Success           bool              `json:"success"`
	Outcome           string            `json:"outcome"`
	ErrorKind         string            `json:"error_kind,omitempty"`
	Sources           []domain.Citation `json:"sources"`
	DocumentsSearched int               `json:"documents_searched"`
	RelevantDocuments int               `json:"relevant_documents"`
}

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	Query string `json:"query" jsonschema:"the query to rank documents against"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of results to return (default from settings)"`
}

// SearchOutput is the output schema for the search tool.
type SearchOutput struct {
	Results []SearchResultOutput `json:"results"`
	Count   int                  `json:"count"`
}

// SearchResultOutput represents a single ranked document.
type SearchResultOutput struct {
	DocumentID  string `json:"document_id"`
	DisplayName string `json:"display_name"`
	SourceName  string `json:"source_name"`
	URI         string `json:"uri"`
	Score       int    `json:"score"`
	Content     string `json:"content,omitempty"`
}

// ListDocumentsInput is the input schema for the list_documents tool.
type ListDocumentsInput struct{}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask",
		Description: "Answer a question about university prospectuses, citing the documents used",
	}, s.handleAsk)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search",
		Description: "Rank the loaded prospectuses against a query without generating an answer",
	}, s.handleSearch)

	if s.ports.Document != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "list_documents",
			Description: "List the loaded prospectus documents",
		}, s.handleListDocuments)
	}
}

// handleAsk handles the ask tool invocation.
// Model failures are reported in the output, not as tool errors.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	result := s.ports.Answer.SearchWithAI(ctx, input.Question, domain.SearchOptions{TopK: input.TopK})

	sources := result.Sources
	if sources == nil {
		sources = []domain.Citation{}
	}

	return nil, AskOutput{
		Answer:            result.Answer,
		Success:           result.Success(),
		Outcome:           result.Outcome.String(),
		ErrorKind:         string(result.ErrorKind),
		Sources:           sources,
		DocumentsSearched: result.DocumentsSearched,
		RelevantDocuments: result.RelevantDocuments,
	}, nil
}

// handleSearch handles the search tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	results := s.ports.Answer.Search(ctx, input.Query, domain.SearchOptions{TopK: input.Limit})

	output := SearchOutput{
		Results: make([]SearchResultOutput, len(results)),
		Count:   len(results),
	}

	for i := range results {
		doc := results[i].Document
		output.Results[i] = SearchResultOutput{
			DocumentID:  doc.ID,
			DisplayName: doc.DisplayName,
			SourceName:  doc.SourceName,
			URI:         documentURI(doc.ID),
			Score:       results[i].Score,
			Content:     truncate(doc.Content, excerptLength),
		}
	}

	return nil, output, nil
}

// handleListDocuments handles the list_documents tool invocation.
func (s *Server) handleListDocuments(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ ListDocumentsInput,
) (*mcp.CallToolResult, domain.Inventory, error) {
	return nil, s.ports.Document.List(ctx), nil
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
