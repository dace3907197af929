package runtime

import (
	"path/filepath"
	"strings"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/rust"
)

// DefaultLanguage is the grammar parse_src and parse_file use when none
// is named.
const DefaultLanguage = "rust"

// grammar is one source language snapshots can carry.
type grammar struct {
	name string
	exts []string
	load func() *sitter.Language
}

var grammars = []grammar{
	{name: "rust", exts: []string{".rs"}, load: rust.GetLanguage},
}

// loadedGrammars is filled on first use; GetLanguage allocates.
var loadedGrammars = sync.OnceValue(func() map[string]*sitter.Language {
	out := make(map[string]*sitter.Language, len(grammars))
	for _, g := range grammars {
		out[g.name] = g.load()
	}
	return out
})

// LanguageForFile names the grammar for a snapshot file path by its
// extension, ignoring case.
func LanguageForFile(path string) (string, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	for _, g := range grammars {
		for _, e := range g.exts {
			if e == ext {
				return g.name, true
			}
		}
	}
	return "", false
}

// ParserForLanguage returns the tree-sitter grammar registered under lang.
func ParserForLanguage(lang string) (*sitter.Language, bool) {
	l, ok := loadedGrammars()[lang]
	return l, ok
}
