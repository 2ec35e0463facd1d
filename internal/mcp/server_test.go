package mcp

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fondspod/fondspod/internal/database"
	"github.com/fondspod/fondspod/internal/services"
)

func testOptions() []services.Option {
	return []services.Option{
		services.WithAuditor(database.Auditor{User: "tester", Machine: "bench"}),
		services.WithClock(func() time.Time { return time.Date(2024, time.June, 1, 9, 0, 0, 0, time.UTC) }),
	}
}

func setupServer(t *testing.T) (*Server, *database.Context) {
	t.Helper()
	dbCtx, err := database.CreateDatabase(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.CloseDatabase(dbCtx) })

	ctx := context.Background()
	classifications := services.NewClassificationService(dbCtx, testOptions()...)
	require.NoError(t, classifications.CreateTop(ctx, "GA", "文化"))
	require.NoError(t, classifications.CreateChild(ctx, "GA", "GA1", "文书"))

	schemas := services.NewSchemaService(dbCtx, testOptions()...)
	require.NoError(t, schemas.CreateSchema(ctx, "DEPT", "部门"))
	require.NoError(t, schemas.AddSchemaItem(ctx, "DEPT", "01", "人事"))

	return NewServer(dbCtx, nil, testOptions()...), dbCtx
}

func TestClassificationTools(t *testing.T) {
	s, _ := setupServer(t)
	ctx := context.Background()

	_, top, err := s.handleClassificationList(ctx, nil, ClassificationListInput{})
	require.NoError(t, err)
	require.Len(t, top.Classifications, 1)
	assert.Equal(t, "GA", top.Classifications[0].Code)
	assert.True(t, top.Classifications[0].Active)

	_, children, err := s.handleClassificationList(ctx, nil, ClassificationListInput{Parent: "GA"})
	require.NoError(t, err)
	require.Len(t, children.Classifications, 1)
	assert.Equal(t, "GA", children.Classifications[0].Parent)

	_, exported, err := s.handleClassificationExport(ctx, nil, ClassificationExportInput{})
	require.NoError(t, err)
	require.Len(t, exported.Tree, 1)
	require.Len(t, exported.Tree[0].Children, 1)
	assert.Equal(t, "GA1", exported.Tree[0].Children[0].Code)
}

func TestClassificationExportThroughSession(t *testing.T) {
	s, dbCtx := setupServer(t)
	ctx := context.Background()
	require.NoError(t, services.NewClassificationService(dbCtx, testOptions()...).CreateTop(ctx, "GB", "科技"))

	clientTransport, serverTransport := mcp.NewInMemoryTransports()
	serverSession, err := s.server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = serverSession.Close() })

	client := mcp.NewClient(&mcp.Implementation{Name: "test", Version: "0"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = session.Close() })

	res, err := session.CallTool(ctx, &mcp.CallToolParams{Name: "classification_export", Arguments: map[string]any{}})
	require.NoError(t, err)
	require.False(t, res.IsError)

	data, err := json.Marshal(res.StructuredContent)
	require.NoError(t, err)
	var out ClassificationExportOutput
	require.NoError(t, json.Unmarshal(data, &out))
	require.Len(t, out.Tree, 2)
	assert.Equal(t, "GA1", out.Tree[0].Children[0].Code)
	assert.NotNil(t, out.Tree[1].Children)
	assert.Empty(t, out.Tree[1].Children)
}

func TestSchemaList(t *testing.T) {
	s, _ := setupServer(t)

	_, out, err := s.handleSchemaList(context.Background(), nil, SchemaListInput{})
	require.NoError(t, err)

	byNo := map[string]Schema{}
	for _, schema := range out.Schemas {
		byNo[schema.SchemaNo] = schema
	}
	require.Contains(t, byNo, "Year")
	assert.True(t, byNo["Year"].Protected)
	require.Contains(t, byNo, "DEPT")
	assert.Equal(t, []SchemaItem{{ItemNo: "01", Name: "人事"}}, byNo["DEPT"].Items)
}

func TestFondAndSeriesTools(t *testing.T) {
	s, dbCtx := setupServer(t)
	ctx := context.Background()

	created, err := services.NewFondService(dbCtx, testOptions()...).Create(ctx, services.CreateFondInput{
		ClassificationCode: "GA",
		Name:               "文书档案",
		CreatedAt:          "2023-05-01",
		SchemaNos:          []string{"DEPT", "Year"},
	})
	require.NoError(t, err)
	require.Equal(t, 2, created.SeriesCount)

	_, fonds, err := s.handleFondList(ctx, nil, FondListInput{Classification: "GA"})
	require.NoError(t, err)
	require.Len(t, fonds.Fonds, 1)
	assert.Equal(t, []string{"DEPT", "Year"}, fonds.Fonds[0].Schemas)

	_, listed, err := s.handleSeriesList(ctx, nil, SeriesListInput{FondNo: "GA01"})
	require.NoError(t, err)
	require.Len(t, listed.Series, 2)
	assert.Equal(t, "GA01-01-2023", listed.Series[0].SeriesNo)

	_, _, err = s.handleSeriesList(ctx, nil, SeriesListInput{FondNo: "GA99"})
	require.ErrorIs(t, err, database.ErrNotFound)

	schemas := services.NewSchemaService(dbCtx, testOptions()...)
	require.NoError(t, schemas.AddSchemaItem(ctx, "DEPT", "02", "财务"))

	_, plan, err := s.handleSeriesGenerate(ctx, nil, SeriesGenerateInput{FondNo: "GA01", DryRun: true})
	require.NoError(t, err)
	assert.Len(t, plan.Planned, 4)
	assert.Zero(t, plan.Inserted)

	_, gen, err := s.handleSeriesGenerate(ctx, nil, SeriesGenerateInput{FondNo: "GA01"})
	require.NoError(t, err)
	assert.Equal(t, 2, gen.Inserted)
}

func TestSequenceNext(t *testing.T) {
	s, _ := setupServer(t)
	ctx := context.Background()

	_, first, err := s.handleSequenceNext(ctx, nil, SequenceNextInput{Prefix: "BOX"})
	require.NoError(t, err)
	assert.Equal(t, "BOX01", first.Number)

	_, second, err := s.handleSequenceNext(ctx, nil, SequenceNextInput{Prefix: "BOX", Digits: 4})
	require.NoError(t, err)
	assert.Equal(t, "BOX0002", second.Number)
}

func TestToolsAreRegistered(t *testing.T) {
	s, _ := setupServer(t)
	ctx := context.Background()

	clientTransport, serverTransport := mcp.NewInMemoryTransports()
	serverSession, err := s.server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = serverSession.Close() })

	client := mcp.NewClient(&mcp.Implementation{Name: "test", Version: "0"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = session.Close() })

	tools, err := session.ListTools(ctx, nil)
	require.NoError(t, err)

	var names []string
	for _, tool := range tools.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{
		"classification_list", "classification_export", "schema_list",
		"fond_list", "series_list", "series_generate", "sequence_next",
	}, names)
}
