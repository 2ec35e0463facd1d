package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fondspod/fondspod/internal/database"
)

func codes(records []database.ClassificationRecord) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.Code)
	}
	return out
}

func TestClassificationTopAndChild(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.classification.CreateTop(ctx, "GA", "文化"))
	require.NoError(t, f.classification.CreateChild(ctx, "GA", "GA1", "图书"))

	tops, err := f.classification.ListTop(ctx)
	require.NoError(t, err)
	require.Len(t, tops, 1)
	assert.Equal(t, "GA", tops[0].Code)
	assert.True(t, tops[0].Active)
	assert.True(t, tops[0].IsTop())
	assert.Equal(t, "tester", tops[0].CreatedBy)
	assert.Equal(t, "bench", tops[0].CreatedMachine)

	children, err := f.classification.ListChildren(ctx, "GA")
	require.NoError(t, err)
	require.Len(t, children, 1)
	assert.Equal(t, "GA1", children[0].Code)
	assert.Equal(t, "GA", children[0].ParentCode)
}

func TestClassificationCodesAreUnique(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.classification.CreateTop(ctx, "GA", "文化"))
	require.ErrorIs(t, f.classification.CreateTop(ctx, "GA", "again"), database.ErrDuplicateKey)
	require.ErrorIs(t, f.classification.CreateChild(ctx, "GA", "GA", "self"), database.ErrDuplicateKey)

	require.NoError(t, f.classification.CreateChild(ctx, "GA", "GA1", "图书"))
	require.ErrorIs(t, f.classification.CreateTop(ctx, "GA1", "dup"), database.ErrDuplicateKey)

	tops, err := f.classification.ListTop(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"GA"}, codes(tops))
}

func TestClassificationCreateValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.ErrorIs(t, f.classification.CreateTop(ctx, "", "name"), database.ErrMalformedInput)
	require.ErrorIs(t, f.classification.CreateTop(ctx, "GA", " "), database.ErrMalformedInput)
	require.ErrorIs(t, f.classification.CreateChild(ctx, "NOPE", "X1", "x"), database.ErrNotFound)

	require.NoError(t, f.classification.CreateTop(ctx, "GA", "文化"))
	require.NoError(t, f.classification.CreateChild(ctx, "GA", "GA1", "图书"))
	require.ErrorIs(t, f.classification.CreateChild(ctx, "GA1", "GA11", "too deep"), database.ErrMalformedInput)
}

func TestClassificationSortOrderFollowsSiblings(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, code := range []string{"A", "B", "C"} {
		require.NoError(t, f.classification.CreateTop(ctx, code, code))
	}
	require.NoError(t, f.classification.CreateChild(ctx, "A", "A1", "a1"))
	require.NoError(t, f.classification.CreateChild(ctx, "A", "A2", "a2"))

	tops, err := f.classification.ListTop(ctx)
	require.NoError(t, err)
	for i, top := range tops {
		assert.EqualValues(t, i, top.SortOrder)
	}

	children, err := f.classification.ListChildren(ctx, "A")
	require.NoError(t, err)
	assert.EqualValues(t, 0, children[0].SortOrder)
	assert.EqualValues(t, 1, children[1].SortOrder)
}

func TestClassificationReorder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, code := range []string{"A", "B", "C"} {
		require.NoError(t, f.classification.CreateTop(ctx, code, code))
	}

	require.NoError(t, f.classification.Reorder(ctx, "", []string{"C", "A", "B"}))
	tops, err := f.classification.ListTop(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"C", "A", "B"}, codes(tops))

	require.ErrorIs(t, f.classification.Reorder(ctx, "", []string{"C", "A"}), database.ErrMalformedInput)
	require.ErrorIs(t, f.classification.Reorder(ctx, "", []string{"C", "A", "A"}), database.ErrMalformedInput)

	var sortable Sortable = f.classification
	require.NoError(t, sortable.SetSortOrder(ctx, "B", -1))
	tops, err = f.classification.ListTop(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "C", "A"}, codes(tops))

	require.ErrorIs(t, sortable.SetSortOrder(ctx, "NOPE", 1), database.ErrNotFound)
}

func TestClassificationActivation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.classification.CreateTop(ctx, "GA", "文化"))
	require.NoError(t, f.classification.CreateChild(ctx, "GA", "GA1", "图书"))

	var toggle Activatable = f.classification
	require.NoError(t, toggle.Deactivate(ctx, "GA"))
	require.NoError(t, toggle.Deactivate(ctx, "GA"))

	top, err := f.classification.Get(ctx, "GA")
	require.NoError(t, err)
	assert.False(t, top.Active)

	child, err := f.classification.Get(ctx, "GA1")
	require.NoError(t, err)
	assert.True(t, child.Active, "deactivation must not cascade")

	require.NoError(t, toggle.Activate(ctx, "GA"))
	top, err = f.classification.Get(ctx, "GA")
	require.NoError(t, err)
	assert.True(t, top.Active)

	require.ErrorIs(t, toggle.Activate(ctx, "NOPE"), database.ErrNotFound)
}

func TestClassificationRename(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.classification.CreateTop(ctx, "GA", "文化"))
	require.NoError(t, f.classification.Rename(ctx, "GA", "文化艺术"))

	top, err := f.classification.Get(ctx, "GA")
	require.NoError(t, err)
	assert.Equal(t, "文化艺术", top.Name)

	require.ErrorIs(t, f.classification.Rename(ctx, "NOPE", "x"), database.ErrNotFound)
	require.ErrorIs(t, f.classification.Rename(ctx, "GA", ""), database.ErrMalformedInput)

	_, err = f.classification.Get(ctx, "NOPE")
	require.ErrorIs(t, err, database.ErrNotFound)
}

func TestClassificationDeleteGuards(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.classification.CreateTop(ctx, "GA", "文化"))
	require.NoError(t, f.classification.CreateChild(ctx, "GA", "GA1", "图书"))
	require.NoError(t, f.classification.CreateTop(ctx, "GB", "科技"))
	_, err := f.fond.Create(ctx, CreateFondInput{ClassificationCode: "GB", Name: "科技档案", CreatedAt: "2024"})
	require.NoError(t, err)

	deleted, err := f.classification.Delete(ctx, "GA")
	require.NoError(t, err)
	assert.False(t, deleted, "node with children")

	deleted, err = f.classification.Delete(ctx, "GB")
	require.NoError(t, err)
	assert.False(t, deleted, "node referenced by a fond")

	deleted, err = f.classification.Delete(ctx, "NOPE")
	require.NoError(t, err)
	assert.False(t, deleted)

	for _, code := range []string{"GA", "GA1", "GB"} {
		_, err := f.classification.Get(ctx, code)
		require.NoError(t, err, code)
	}

	deleted, err = f.classification.Delete(ctx, "GA1")
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = f.classification.Delete(ctx, "GA")
	require.NoError(t, err)
	assert.True(t, deleted)
}
