package builder_test

import (
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/ledgerscript/beancount/ast"
	"github.com/ledgerscript/beancount/builder"
)

func TestTreeBuilderAppliesPushedTags(t *testing.T) {
	b := builder.NewTreeBuilder()

	assert.NoError(t, b.PushTag(ast.Position{}, ast.Tag("trip-europe")))

	date, err := ast.NewDate("2014-07-01")
	assert.NoError(t, err)

	txn, err := b.Transaction(&ast.Transaction{Date: date, Narration: ast.NewRawString("Flight")})
	assert.NoError(t, err)
	assert.Equal(t, []ast.Tag{"trip-europe"}, txn.Tags)

	assert.NoError(t, b.PopTag(ast.Position{}, ast.Tag("trip-europe")))

	result := b.Result()
	assert.True(t, result.Success())
	assert.Equal(t, 1, len(result.Directives))
}

func TestTreeBuilderPopTagWithoutPushIsAnError(t *testing.T) {
	b := builder.NewTreeBuilder()
	err := b.PopTag(ast.Position{}, ast.Tag("never-pushed"))
	assert.Error(t, err)
}

func TestTreeBuilderRecordsErrorsWithoutAborting(t *testing.T) {
	b := builder.NewTreeBuilder()
	b.Error(builder.NewError(ast.Position{Line: 3}, builder.CategoryGrammar, "unexpected token"))

	date, err := ast.NewDate("2014-07-01")
	assert.NoError(t, err)
	_, err = b.Open(&ast.Open{Date: date, Account: "Assets:Checking"})
	assert.NoError(t, err)

	result := b.Result()
	assert.False(t, result.Success())
	assert.Equal(t, 1, len(result.Errors))
	assert.Equal(t, 1, len(result.Directives))
}

func TestTagContextMultisetRequiresBalancedPushPop(t *testing.T) {
	ctx := builder.NewTagContext()
	ctx.PushTag("a")
	ctx.PushTag("a")
	assert.Equal(t, []ast.Tag{"a"}, ctx.ActiveTags())

	assert.True(t, ctx.PopTag("a"))
	assert.Equal(t, []ast.Tag{"a"}, ctx.ActiveTags())

	assert.True(t, ctx.PopTag("a"))
	assert.Equal(t, 0, len(ctx.ActiveTags()))

	assert.False(t, ctx.PopTag("a"))
}

func TestTagContextMetaLastPushedWins(t *testing.T) {
	ctx := builder.NewTagContext()
	outer := "New York"
	inner := "Paris"
	ctx.PushMeta("location", &ast.MetadataValue{StringValue: &ast.RawString{Value: outer}})
	ctx.PushMeta("location", &ast.MetadataValue{StringValue: &ast.RawString{Value: inner}})

	meta := ctx.ActiveMeta()
	assert.Equal(t, 1, len(meta))
	assert.Equal(t, "Paris", meta[0].Value.String())

	assert.True(t, ctx.PopMeta("location"))
	meta = ctx.ActiveMeta()
	assert.Equal(t, "New York", meta[0].Value.String())
}
