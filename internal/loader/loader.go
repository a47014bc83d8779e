// Package loader reads programs and goal suites from YAML.
//
// Declarations are structured YAML; only the terms inside them (types,
// trait references, where-clauses and goals) use the textual term syntax of
// the parser package:
//
//	format: "1.0"
//	program:
//	  traits:
//	    - name: Sized
//	      attributes: [lang(sized)]
//	    - name: Foo
//	  structs:
//	    - name: Vec
//	      params: [T]
//	      fields: ["[T]"]
//	  impls:
//	    - params: [T]
//	      impl: "Vec<T>: Foo"
//	      where: ["T: Foo"]
//	goals:
//	  - goal: "exists<T> { Vec<T>: Foo }"
//	    expect: "Ambiguous"
package loader

import (
	"bytes"
	"io"
	"os"

	"github.com/Masterminds/semver/v3"
	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"

	"github.com/ChayimFriedman2/chalk/internal/config"
	"github.com/ChayimFriedman2/chalk/internal/logic"
	"github.com/ChayimFriedman2/chalk/internal/parser"
)

var (
	// ErrInvalidSuite is returned for documents that do not describe a
	// program or suite.
	ErrInvalidSuite = errors.New("invalid suite")
	// ErrUnsupportedFormat is returned when the format version is outside
	// the supported range.
	ErrUnsupportedFormat = errors.New("unsupported suite format")
)

// DefaultFormat is assumed when a document has no format field.
const DefaultFormat = "1.0"

// Suite is a program together with the goals to check against it.
type Suite struct {
	Path    string
	Format  *semver.Version
	Program *logic.Program
	Goals   []GoalCase
}

// GoalCase is one goal and the answer it is expected to produce. Expect is
// compared as a prefix of the rendered answer; an empty Expect only solves.
type GoalCase struct {
	Name   string
	Text   string
	Goal   logic.Goal
	Expect string
}

type document struct {
	Format  string      `yaml:"format"`
	Program programDoc  `yaml:"program"`
	Goals   []goalEntry `yaml:"goals"`
}

type programDoc struct {
	Traits  []traitEntry  `yaml:"traits"`
	Structs []structEntry `yaml:"structs"`
	Impls   []implEntry   `yaml:"impls"`
}

type traitEntry struct {
	Name       string   `yaml:"name"`
	Params     []string `yaml:"params"`
	Attributes []string `yaml:"attributes"`
}

type structEntry struct {
	Name   string   `yaml:"name"`
	Params []string `yaml:"params"`
	Fields []string `yaml:"fields"`
	Where  []string `yaml:"where"`
}

type implEntry struct {
	Params   []string `yaml:"params"`
	Impl     string   `yaml:"impl"`
	Where    []string `yaml:"where"`
	Negative bool     `yaml:"negative"`
}

type goalEntry struct {
	Name   string `yaml:"name"`
	Goal   string `yaml:"goal"`
	Expect string `yaml:"expect"`
}

// LoadFile reads the suite at path.
func LoadFile(path string) (*Suite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	s, err := Load(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrapf(err, "loading %s", path)
	}
	s.Path = path
	return s, nil
}

// Load reads a suite from r. The program is validated; the goals are only
// parsed, since the solver validates each goal it is asked.
func Load(r io.Reader) (*Suite, error) {
	var doc document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.Wrap(ErrInvalidSuite, "empty document")
		}
		return nil, errors.Mark(errors.Wrap(err, "decoding YAML"), ErrInvalidSuite)
	}

	version, err := checkFormat(doc.Format)
	if err != nil {
		return nil, err
	}

	program, err := buildProgram(doc.Program)
	if err != nil {
		return nil, err
	}

	goals := make([]GoalCase, 0, len(doc.Goals))
	for i, entry := range doc.Goals {
		name := entry.Name
		if name == "" {
			name = entry.Goal
		}
		g, err := parser.ParseGoal(entry.Goal)
		if err != nil {
			return nil, errors.Wrapf(err, "goal %d (%s)", i, name)
		}
		goals = append(goals, GoalCase{Name: name, Text: entry.Goal, Goal: g, Expect: entry.Expect})
	}

	return &Suite{Format: version, Program: program, Goals: goals}, nil
}

func checkFormat(format string) (*semver.Version, error) {
	if format == "" {
		format = DefaultFormat
	}
	v, err := semver.NewVersion(format)
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "format %q", format), ErrInvalidSuite)
	}
	c, err := semver.NewConstraint(config.FormatConstraint)
	if err != nil {
		return nil, errors.Wrap(err, "format constraint")
	}
	if !c.Check(v) {
		return nil, errors.WithHintf(
			errors.Wrapf(ErrUnsupportedFormat, "format %s", v),
			"this version reads formats %s", config.FormatConstraint)
	}
	return v, nil
}

func buildProgram(doc programDoc) (*logic.Program, error) {
	p := logic.NewProgram()

	for _, entry := range doc.Traits {
		t, err := buildTrait(entry)
		if err != nil {
			return nil, errors.Wrapf(err, "trait %s", entry.Name)
		}
		if err := p.AddTrait(t); err != nil {
			return nil, err
		}
	}

	for _, entry := range doc.Structs {
		s, err := buildStruct(entry)
		if err != nil {
			return nil, errors.Wrapf(err, "struct %s", entry.Name)
		}
		if err := p.AddStruct(s); err != nil {
			return nil, err
		}
	}

	for i, entry := range doc.Impls {
		impl, err := buildImpl(entry)
		if err != nil {
			return nil, errors.Wrapf(err, "impl %d (%s)", i, entry.Impl)
		}
		if err := p.AddImpl(impl); err != nil {
			return nil, err
		}
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func buildTrait(entry traitEntry) (logic.TraitDatum, error) {
	if entry.Name == "" {
		return logic.TraitDatum{}, errors.Wrap(ErrInvalidSuite, "missing name")
	}
	params, err := parser.ParseParams(entry.Params)
	if err != nil {
		return logic.TraitDatum{}, err
	}
	t := logic.TraitDatum{Name: entry.Name, Params: parser.Kinds(params)}

	for _, text := range entry.Attributes {
		attr, err := parser.ParseAttribute(text)
		if err != nil {
			return logic.TraitDatum{}, err
		}
		if err := applyAttribute(&t, attr); err != nil {
			return logic.TraitDatum{}, err
		}
	}
	return t, nil
}

func applyAttribute(t *logic.TraitDatum, attr parser.Attribute) error {
	if attr.Name != config.AttrLang && attr.Arg != "" {
		return errors.Wrapf(ErrInvalidSuite, "attribute %s takes no argument", attr.Name)
	}
	switch attr.Name {
	case config.AttrLang:
		lang, ok := logic.ParseLangItem(attr.Arg)
		if !ok {
			return errors.WithHintf(
				errors.Wrapf(ErrInvalidSuite, "unknown lang item %q", attr.Arg),
				"known lang items: %s, %s, %s", config.LangSized, config.LangCopy, config.LangClone)
		}
		t.Lang = lang
	case config.AttrAuto:
		t.Auto = true
	case config.AttrCoinductive:
		t.Coinductive = true
	case config.AttrNonEnumerable:
		t.NonEnumerable = true
	default:
		return errors.Wrapf(ErrInvalidSuite, "unknown attribute %s", attr)
	}
	return nil
}

func buildStruct(entry structEntry) (logic.StructDatum, error) {
	if entry.Name == "" {
		return logic.StructDatum{}, errors.Wrap(ErrInvalidSuite, "missing name")
	}
	params, err := parser.ParseParams(entry.Params)
	if err != nil {
		return logic.StructDatum{}, err
	}
	s := logic.StructDatum{Name: entry.Name, Params: parser.Kinds(params)}

	for i, text := range entry.Fields {
		ty, err := parser.ParseType(text, params)
		if err != nil {
			return logic.StructDatum{}, errors.Wrapf(err, "field %d", i)
		}
		s.Fields = append(s.Fields, ty)
	}
	for _, text := range entry.Where {
		ref, err := parser.ParseTraitRef(text, params)
		if err != nil {
			return logic.StructDatum{}, errors.Wrapf(err, "where %s", text)
		}
		s.Where = append(s.Where, ref)
	}
	return s, nil
}

func buildImpl(entry implEntry) (logic.ImplDatum, error) {
	params, err := parser.ParseParams(entry.Params)
	if err != nil {
		return logic.ImplDatum{}, err
	}
	ref, err := parser.ParseTraitRef(entry.Impl, params)
	if err != nil {
		return logic.ImplDatum{}, err
	}
	impl := logic.ImplDatum{Binders: parser.Kinds(params), Ref: ref, Negative: entry.Negative}
	for _, text := range entry.Where {
		g, err := parser.ParseGoalIn(text, params)
		if err != nil {
			return logic.ImplDatum{}, errors.Wrapf(err, "where %s", text)
		}
		impl.Where = append(impl.Where, g)
	}
	return impl, nil
}
