package loader

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChayimFriedman2/chalk/internal/logic"
	"github.com/ChayimFriedman2/chalk/internal/parser"
	ts "github.com/ChayimFriedman2/chalk/internal/typesystem"
)

func TestLoadFixtures(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("testdata", "*.yaml"))
	require.NoError(t, err)
	require.NotEmpty(t, paths)

	for _, path := range paths {
		t.Run(filepath.Base(path), func(t *testing.T) {
			s, err := LoadFile(path)
			require.NoError(t, err)
			assert.Equal(t, path, s.Path)
			assert.Equal(t, "1.0.0", s.Format.String())
			require.NotEmpty(t, s.Goals)
			for _, g := range s.Goals {
				assert.NotEmpty(t, g.Expect, g.Name)
				assert.NotNil(t, g.Goal, g.Name)
			}
		})
	}
}

const sample = `
program:
  traits:
    - name: Send
      attributes: [auto]
    - name: Copy
      attributes: ["#[lang(copy)]"]
    - name: Eq
      params: [Rhs]
      attributes: [coinductive, non_enumerable]
  structs:
    - name: Ref
      params: ["'a", T]
      fields: [T, "[T]"]
      where: ["T: Eq<T>"]
  impls:
    - params: ["'a", T]
      impl: "Ref<'a, T>: Eq<u8>"
      where: ["T: Copy; T: Send"]
    - impl: "u8: Send"
      negative: true
goals:
  - name: copy
    goal: "forall<T> { if (T: Copy) { (T, u8): Copy } }"
    expect: Unique
  - goal: "exists<T> { T: Send }"
`

func TestLoad(t *testing.T) {
	s, err := Load(strings.NewReader(sample))
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", s.Format.String(), "missing format defaults to 1.0")

	p := s.Program
	send, ok := p.Trait("Send")
	require.True(t, ok)
	assert.True(t, send.Auto)
	assert.True(t, send.IsCoinductive())

	cp, ok := p.LangTrait(logic.LangCopy)
	require.True(t, ok)
	assert.Equal(t, "Copy", cp.Name)

	eq, ok := p.Trait("Eq")
	require.True(t, ok)
	assert.True(t, eq.Coinductive)
	assert.True(t, eq.NonEnumerable)
	assert.Equal(t, []ts.Kind{ts.Star}, eq.Params)

	ref, ok := p.Struct("Ref")
	require.True(t, ok)
	assert.Equal(t, []ts.Kind{ts.LifetimeKind, ts.Star}, ref.Params)
	require.Len(t, ref.Fields, 2)
	assert.Equal(t, "^0.1", ref.Fields[0].String())
	assert.Equal(t, "[^0.1]", ref.Fields[1].String())
	require.Len(t, ref.Where, 1)
	assert.Equal(t, "^0.1: Eq<^0.1>", ref.Where[0].String())

	impls := p.Impls()
	require.Len(t, impls, 2)
	assert.Equal(t, "impl Ref<'^0.0, ^0.1>: Eq<u8>", impls[0].String())
	require.Len(t, impls[0].Where, 1)
	assert.Equal(t, "(Implemented(^0.1: Copy); Implemented(^0.1: Send))", impls[0].Where[0].String())
	assert.True(t, impls[1].Negative)

	require.Len(t, s.Goals, 2)
	assert.Equal(t, "copy", s.Goals[0].Name)
	assert.Equal(t, "Unique", s.Goals[0].Expect)
	assert.Equal(t, "exists<T> { T: Send }", s.Goals[1].Name, "unnamed goals are named by their text")
	assert.Empty(t, s.Goals[1].Expect)
}

func TestLoadErrors(t *testing.T) {
	testCases := []struct {
		name   string
		input  string
		target error
	}{
		{"empty", "", ErrInvalidSuite},
		{"unknown_field", "program:\n  enums: []\n", ErrInvalidSuite},
		{"not_yaml", "program: [", ErrInvalidSuite},
		{"bad_format", "format: banana\n", ErrInvalidSuite},
		{"future_format", "format: \"2.0\"\n", ErrUnsupportedFormat},
		{"unknown_attribute", "program:\n  traits:\n    - name: Foo\n      attributes: [fundamental]\n", ErrInvalidSuite},
		{"unknown_lang", "program:\n  traits:\n    - name: Foo\n      attributes: [lang(drop)]\n", ErrInvalidSuite},
		{"auto_with_arg", "program:\n  traits:\n    - name: Foo\n      attributes: [auto(x)]\n", ErrInvalidSuite},
		{"attribute_syntax", "program:\n  traits:\n    - name: Foo\n      attributes: [\"lang(\"]\n", parser.ErrSyntax},
		{"nameless_trait", "program:\n  traits:\n    - params: [T]\n", ErrInvalidSuite},
		{"duplicate_trait", "program:\n  traits:\n    - name: Foo\n    - name: Foo\n", logic.ErrDuplicateDecl},
		{"unknown_trait", "program:\n  impls:\n    - impl: \"u8: Foo\"\n", logic.ErrMalformedGoal},
		{"unknown_type", "program:\n  traits:\n    - name: Foo\n  impls:\n    - impl: \"Vec<u8>: Foo\"\n", logic.ErrMalformedGoal},
		{"negative_non_auto", "program:\n  traits:\n    - name: Foo\n  impls:\n    - impl: \"u8: Foo\"\n      negative: true\n", logic.ErrMalformedGoal},
		{"field_syntax", "program:\n  structs:\n    - name: S\n      fields: [\"(u8\"]\n", parser.ErrSyntax},
		{"goal_syntax", "goals:\n  - goal: \"u8:\"\n", parser.ErrSyntax},
		{"bad_param", "program:\n  structs:\n    - name: S\n      params: [\"'static\"]\n", parser.ErrSyntax},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tc.input))
			require.Error(t, err)
			assert.True(t, errors.Is(err, tc.target), "got %v", err)
		})
	}
}

func TestLoadFileErrors(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("goals:\n  - goal: \"exists<T> {\"\n"), 0o644))
	_, err = LoadFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), path)
	assert.True(t, errors.Is(err, parser.ErrSyntax))
}
