// Package mcp exposes a library's archive operations as MCP tools over stdio.
package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/fondspod/fondspod/internal/database"
	"github.com/fondspod/fondspod/internal/logger"
	"github.com/fondspod/fondspod/internal/services"
)

// Version is reported to MCP clients.
var Version = "0.1.0"

// Server wraps the MCP server with the services of one library database.
type Server struct {
	server          *mcp.Server
	log             *logger.Logger
	classifications *services.ClassificationService
	schemas         *services.SchemaService
	fonds           *services.FondService
	sequences       *services.SequenceService
}

// NewServer creates a server over dbCtx. The caller keeps ownership of dbCtx.
func NewServer(dbCtx *database.Context, log *logger.Logger, opts ...services.Option) *Server {
	if log == nil {
		log = logger.Nop()
	}
	opts = append([]services.Option{services.WithLogger(log)}, opts...)

	s := &Server{
		server: mcp.NewServer(&mcp.Implementation{
			Name:    "fondspod",
			Version: Version,
		}, nil),
		log:             log.With("component", "mcp"),
		classifications: services.NewClassificationService(dbCtx, opts...),
		schemas:         services.NewSchemaService(dbCtx, opts...),
		fonds:           services.NewFondService(dbCtx, opts...),
		sequences:       services.NewSequenceService(dbCtx, opts...),
	}
	s.registerTools()
	return s
}

// Run serves MCP over stdio until ctx is done or the client disconnects.
func (s *Server) Run(ctx context.Context) error {
	s.log.Info("mcp server starting", "transport", "stdio")
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "classification_list",
		Description: "List fond classifications, top level or the children of a parent",
	}, s.handleClassificationList)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "classification_export",
		Description: "Export the whole classification tree",
	}, s.handleClassificationExport)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "schema_list",
		Description: "List schemas with their items",
	}, s.handleSchemaList)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "fond_list",
		Description: "List fonds, optionally for one classification",
	}, s.handleFondList)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "series_list",
		Description: "List the series of a fond",
	}, s.handleSeriesList)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "series_generate",
		Description: "Generate the missing series of a fond",
	}, s.handleSeriesGenerate)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "sequence_next",
		Description: "Take the next number of a sequence",
	}, s.handleSequenceNext)
}

type ClassificationListInput struct {
	Parent string `json:"parent,omitempty" jsonschema:"Parent classification code; top level when empty"`
}

type Classification struct {
	Code      string `json:"code"`
	Name      string `json:"name"`
	Parent    string `json:"parent,omitempty"`
	Active    bool   `json:"active"`
	SortOrder int64  `json:"sortOrder"`
}

type ClassificationListOutput struct {
	Classifications []Classification `json:"classifications"`
}

type ClassificationExportInput struct{}

type ClassificationLeaf struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	IsActive bool   `json:"isActive"`
}

type ClassificationTop struct {
	Code     string               `json:"code"`
	Name     string               `json:"name"`
	IsActive bool                 `json:"isActive"`
	Children []ClassificationLeaf `json:"children"`
}

type ClassificationExportOutput struct {
	Tree []ClassificationTop `json:"tree"`
}

type SchemaListInput struct{}

type SchemaItem struct {
	ItemNo string `json:"itemNo"`
	Name   string `json:"name"`
}

type Schema struct {
	SchemaNo  string       `json:"schemaNo"`
	Name      string       `json:"name"`
	Protected bool         `json:"protected,omitempty"`
	Items     []SchemaItem `json:"items"`
}

type SchemaListOutput struct {
	Schemas []Schema `json:"schemas"`
}

type FondListInput struct {
	Classification string `json:"classification,omitempty" jsonschema:"Only fonds of this classification code"`
}

type Fond struct {
	FondNo         string   `json:"fondNo"`
	Classification string   `json:"classification"`
	Name           string   `json:"name"`
	CreatedAt      string   `json:"createdAt"`
	Schemas        []string `json:"schemas"`
}

type FondListOutput struct {
	Fonds []Fond `json:"fonds"`
}

type SeriesListInput struct {
	FondNo string `json:"fondNo" jsonschema:"Fond number, for example GA01"`
}

type Series struct {
	SeriesNo  string `json:"seriesNo"`
	Name      string `json:"name"`
	CreatedAt string `json:"createdAt"`
}

type SeriesListOutput struct {
	Series []Series `json:"series"`
}

type SeriesGenerateInput struct {
	FondNo string `json:"fondNo" jsonschema:"Fond number, for example GA01"`
	DryRun bool   `json:"dryRun,omitempty" jsonschema:"Only report the planned series"`
}

type SeriesGenerateOutput struct {
	Inserted int      `json:"inserted"`
	Planned  []string `json:"planned,omitempty"`
}

type SequenceNextInput struct {
	Prefix string `json:"prefix" jsonschema:"Sequence prefix"`
	Digits int    `json:"digits,omitempty" jsonschema:"Zero padding width, 2 when omitted"`
}

type SequenceNextOutput struct {
	Number string `json:"number"`
}

func (s *Server) handleClassificationList(ctx context.Context, req *mcp.CallToolRequest, input ClassificationListInput) (*mcp.CallToolResult, ClassificationListOutput, error) {
	var (
		records []database.ClassificationRecord
		err     error
	)
	if input.Parent == "" {
		records, err = s.classifications.ListTop(ctx)
	} else {
		records, err = s.classifications.ListChildren(ctx, input.Parent)
	}
	if err != nil {
		return nil, ClassificationListOutput{}, fmt.Errorf("failed to list classifications: %w", err)
	}

	out := make([]Classification, 0, len(records))
	for _, r := range records {
		out = append(out, Classification{
			Code:      r.Code,
			Name:      r.Name,
			Parent:    r.ParentCode,
			Active:    r.Active,
			SortOrder: r.SortOrder,
		})
	}
	return nil, ClassificationListOutput{Classifications: out}, nil
}

func (s *Server) handleClassificationExport(ctx context.Context, req *mcp.CallToolRequest, input ClassificationExportInput) (*mcp.CallToolResult, ClassificationExportOutput, error) {
	tree, err := s.classifications.ExportTree(ctx)
	if err != nil {
		return nil, ClassificationExportOutput{}, fmt.Errorf("failed to export classifications: %w", err)
	}

	out := make([]ClassificationTop, 0, len(tree))
	for _, node := range tree {
		top := ClassificationTop{
			Code:     node.Code,
			Name:     node.Name,
			IsActive: node.IsActive,
			Children: make([]ClassificationLeaf, 0, len(node.Children)),
		}
		for _, child := range node.Children {
			top.Children = append(top.Children, ClassificationLeaf{
				Code:     child.Code,
				Name:     child.Name,
				IsActive: child.IsActive,
			})
		}
		out = append(out, top)
	}
	return nil, ClassificationExportOutput{Tree: out}, nil
}

func (s *Server) handleSchemaList(ctx context.Context, req *mcp.CallToolRequest, input SchemaListInput) (*mcp.CallToolResult, SchemaListOutput, error) {
	records, err := s.schemas.ListSchemas(ctx)
	if err != nil {
		return nil, SchemaListOutput{}, fmt.Errorf("failed to list schemas: %w", err)
	}

	out := make([]Schema, 0, len(records))
	for _, r := range records {
		items, err := s.schemas.ListSchemaItems(ctx, r.SchemaNo)
		if err != nil {
			return nil, SchemaListOutput{}, fmt.Errorf("failed to list items of schema %s: %w", r.SchemaNo, err)
		}
		schema := Schema{
			SchemaNo:  r.SchemaNo,
			Name:      r.Name,
			Protected: services.IsProtectedSchema(r.SchemaNo),
			Items:     make([]SchemaItem, 0, len(items)),
		}
		for _, item := range items {
			schema.Items = append(schema.Items, SchemaItem{ItemNo: item.ItemNo, Name: item.ItemName})
		}
		out = append(out, schema)
	}
	return nil, SchemaListOutput{Schemas: out}, nil
}

func (s *Server) handleFondList(ctx context.Context, req *mcp.CallToolRequest, input FondListInput) (*mcp.CallToolResult, FondListOutput, error) {
	var (
		records []database.FondRecord
		err     error
	)
	if input.Classification == "" {
		records, err = s.fonds.List(ctx)
	} else {
		records, err = s.fonds.ListByClassification(ctx, input.Classification)
	}
	if err != nil {
		return nil, FondListOutput{}, fmt.Errorf("failed to list fonds: %w", err)
	}

	out := make([]Fond, 0, len(records))
	for _, r := range records {
		assigned, err := s.schemas.ListForFond(ctx, r.FondNo)
		if err != nil {
			return nil, FondListOutput{}, fmt.Errorf("failed to list schemas of fond %s: %w", r.FondNo, err)
		}
		schemaNos := make([]string, 0, len(assigned))
		for _, a := range assigned {
			schemaNos = append(schemaNos, a.SchemaNo)
		}
		out = append(out, Fond{
			FondNo:         r.FondNo,
			Classification: r.ClassificationCode,
			Name:           r.Name,
			CreatedAt:      r.CreatedAt,
			Schemas:        schemaNos,
		})
	}
	return nil, FondListOutput{Fonds: out}, nil
}

func (s *Server) handleSeriesList(ctx context.Context, req *mcp.CallToolRequest, input SeriesListInput) (*mcp.CallToolResult, SeriesListOutput, error) {
	if _, err := s.fonds.Get(ctx, input.FondNo); err != nil {
		return nil, SeriesListOutput{}, fmt.Errorf("failed to find fond: %w", err)
	}

	records, err := s.fonds.ListSeries(ctx, input.FondNo)
	if err != nil {
		return nil, SeriesListOutput{}, fmt.Errorf("failed to list series: %w", err)
	}

	out := make([]Series, 0, len(records))
	for _, r := range records {
		out = append(out, Series{
			SeriesNo:  r.SeriesNo,
			Name:      r.Name,
			CreatedAt: r.CreatedAt.Format(time.RFC3339),
		})
	}
	return nil, SeriesListOutput{Series: out}, nil
}

func (s *Server) handleSeriesGenerate(ctx context.Context, req *mcp.CallToolRequest, input SeriesGenerateInput) (*mcp.CallToolResult, SeriesGenerateOutput, error) {
	if input.DryRun {
		planned, err := s.fonds.PlanSeries(ctx, input.FondNo)
		if err != nil {
			return nil, SeriesGenerateOutput{}, fmt.Errorf("failed to plan series: %w", err)
		}
		numbers := make([]string, 0, len(planned))
		for _, c := range planned {
			numbers = append(numbers, c.SeriesNo)
		}
		return nil, SeriesGenerateOutput{Planned: numbers}, nil
	}

	inserted, err := s.fonds.RegenerateSeries(ctx, input.FondNo)
	if err != nil {
		return nil, SeriesGenerateOutput{}, fmt.Errorf("failed to generate series: %w", err)
	}
	return nil, SeriesGenerateOutput{Inserted: inserted}, nil
}

func (s *Server) handleSequenceNext(ctx context.Context, req *mcp.CallToolRequest, input SequenceNextInput) (*mcp.CallToolResult, SequenceNextOutput, error) {
	digits := input.Digits
	if digits == 0 {
		digits = services.FondDigits
	}

	number, err := s.sequences.NextNumber(ctx, input.Prefix, digits)
	if err != nil {
		return nil, SequenceNextOutput{}, fmt.Errorf("failed to take next number: %w", err)
	}
	return nil, SequenceNextOutput{Number: number}, nil
}
