package config

import "strings"

// SuiteFileExtensions are all recognized suite file extensions
var SuiteFileExtensions = []string{".yaml", ".yml"}

// IsSuiteFile reports whether path has a suite file extension.
func IsSuiteFile(path string) bool {
	for _, ext := range SuiteFileExtensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

// IsTestMode indicates if the program is running in test mode.
// This is set once at startup by the check command; logs then leave out
// timings so suite runs are reproducible.
var IsTestMode = false

// Version of the chalk binary, overridden at link time.
var Version = "0.1.0"

// FormatConstraint is the range of suite format versions the loader accepts.
const FormatConstraint = "^1.0"

// Lang item names accepted in #[lang(...)]
const (
	LangSized = "sized"
	LangCopy  = "copy"
	LangClone = "clone"
)

// Trait attribute names
const (
	AttrLang          = "lang"
	AttrAuto          = "auto"
	AttrCoinductive   = "coinductive"
	AttrNonEnumerable = "non_enumerable"
)

// ScalarNames are the built-in scalar types understood by the term syntax.
var ScalarNames = []string{
	"u8", "u16", "u32", "u64", "u128", "usize",
	"i8", "i16", "i32", "i64", "i128", "isize",
	"f32", "f64", "bool", "char",
}

// IsScalar reports whether name is a built-in scalar type.
func IsScalar(name string) bool {
	for _, s := range ScalarNames {
		if s == name {
			return true
		}
	}
	return false
}

// Resolution limits
const (
	DefaultMaxDepth      = 64
	DefaultMaxIterations = 32
)

// Rendering of answers
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)
