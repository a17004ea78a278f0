package lang

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const tsFixture = `/**
 * Adds two numbers
 */
export function add(a: number, b: number): number {
  return a + b;
}

/** Doubles a value. */
export const double = (value: number) => value * 2;

/**
 * A simple counter.
 * @public
 */
export class Counter {
  total = 0;
}

function helper() {}
`

func TestTypeScriptParser_Fixture_ExtractsDeclarations(t *testing.T) {
	p := NewTypeScriptParser()
	decls, err := p.Parse("calc.ts", []byte(tsFixture))
	require.NoError(t, err)

	byName := map[string]Declaration{}
	for _, d := range decls {
		byName[d.Name] = d
	}

	add := byName["add"]
	require.Equal(t, KindFunction, add.Kind)
	require.Equal(t, "Adds two numbers", add.Doc)
	require.Equal(t, []Param{
		{Name: "a", Type: "number"},
		{Name: "b", Type: "number"},
	}, add.Params)
	require.Equal(t, "number", add.Returns)
	require.True(t, add.Exported)
	require.Equal(t, ConfidenceHeuristic, add.Confidence)

	double := byName["double"]
	require.Equal(t, KindFunction, double.Kind)
	require.Equal(t, "Doubles a value.", double.Doc)

	counter := byName["Counter"]
	require.Equal(t, KindClass, counter.Kind)
	require.Equal(t, "A simple counter.", counter.Doc)

	helper := byName["helper"]
	require.False(t, helper.Exported)
}

func TestTypeScriptParser_OptionalAndRestParams_NamesStripped(t *testing.T) {
	src := "function fmt(value?: string, ...rest: number[]) {}\n"

	p := NewTypeScriptParser()
	decls, err := p.Parse("fmt.ts", []byte(src))
	require.NoError(t, err)
	require.Len(t, decls, 1)
	require.Equal(t, []Param{
		{Name: "value", Type: "string"},
		{Name: "rest", Type: "number[]"},
	}, decls[0].Params)
}

func TestTypeScriptParser_JSDocTags_AreStripped(t *testing.T) {
	src := "/**\n * Does a thing.\n * @param x the input\n * @returns nothing\n */\nfunction thing(x) {}\n"

	p := NewTypeScriptParser()
	decls, err := p.Parse("thing.js", []byte(src))
	require.NoError(t, err)
	require.Len(t, decls, 1)
	require.Equal(t, "Does a thing.", decls[0].Doc)
}
