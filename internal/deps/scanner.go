// Package deps detects local files a changed source file depends on by
// scanning its import statements. Only files that exist on disk inside
// the watched root are reported.
package deps

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// Hard cap on related files per event; a single import of a large
// package must not balloon the log record.
const maxRelated = 16

var (
	pythonImport     = regexp.MustCompile(`(?m)^\s*import\s+([\w.]+)`)
	pythonFromImport = regexp.MustCompile(`(?m)^\s*from\s+([\w.]+)\s+import\b`)
	jsImport         = regexp.MustCompile(`(?m)(?:\bfrom\s+|\bimport\s+|\brequire\s*\(\s*)['"]([^'"]+)['"]`)
	goImportSingle   = regexp.MustCompile(`(?m)^\s*import\s+(?:\w+\s+)?"([^"]+)"`)
	goImportBlock    = regexp.MustCompile(`(?ms)^import\s*\((.*?)\)`)
	goImportLine     = regexp.MustCompile(`(?m)^\s*(?:[\w.]+\s+)?"([^"]+)"`)
)

// Scanner resolves imports of changed files against the watched root.
type Scanner struct {
	root string
}

// NewScanner creates a scanner that never reports files outside root.
func NewScanner(root string) *Scanner {
	return &Scanner{root: filepath.Clean(root)}
}

// Related returns the local files that path imports, resolved against
// the file's own directory. The result is sorted and deduplicated.
func (s *Scanner) Related(path string, content []byte) []string {
	dir := filepath.Dir(path)
	var candidates []string

	switch strings.ToLower(filepath.Ext(path)) {
	case ".py":
		candidates = resolvePython(dir, string(content))
	case ".js", ".jsx", ".ts", ".tsx", ".mjs", ".cjs":
		candidates = resolveJS(dir, string(content))
	case ".go":
		candidates = resolveGo(dir, string(content))
	}

	seen := make(map[string]struct{}, len(candidates))
	var related []string
	for _, c := range candidates {
		c = filepath.Clean(c)
		if c == filepath.Clean(path) || !s.inRoot(c) {
			continue
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		related = append(related, c)
	}
	sort.Strings(related)
	// Cap after sorting so truncation keeps the same files regardless
	// of import order.
	if len(related) > maxRelated {
		related = related[:maxRelated]
	}
	return related
}

func (s *Scanner) inRoot(path string) bool {
	rel, err := filepath.Rel(s.root, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// resolvePython maps "import a.b" / "from a.b import c" to a/b.py or
// a/b/__init__.py next to the importing file.
func resolvePython(dir, content string) []string {
	var out []string
	modules := matchAll(pythonImport, content)
	modules = append(modules, matchAll(pythonFromImport, content)...)

	for _, mod := range modules {
		rel := filepath.Join(strings.Split(mod, ".")...)
		for _, candidate := range []string{
			filepath.Join(dir, rel+".py"),
			filepath.Join(dir, rel, "__init__.py"),
		} {
			if fileExists(candidate) {
				out = append(out, candidate)
				break
			}
		}
	}
	return out
}

// resolveJS maps relative specifiers ("./utils", "../lib/x") to an
// existing file, trying the usual extension and index variants.
func resolveJS(dir, content string) []string {
	exts := []string{"", ".js", ".ts", ".jsx", ".tsx", ".mjs", ".cjs"}
	var out []string

	for _, spec := range matchAll(jsImport, content) {
		if !strings.HasPrefix(spec, "./") && !strings.HasPrefix(spec, "../") {
			continue // bare specifiers are package imports, not local files
		}
		base := filepath.Join(dir, filepath.FromSlash(spec))
		for _, ext := range exts {
			if candidate := base + ext; fileExists(candidate) {
				out = append(out, candidate)
				break
			}
			if candidate := filepath.Join(base, "index"+ext); ext != "" && fileExists(candidate) {
				out = append(out, candidate)
				break
			}
		}
	}
	return out
}

// resolveGo maps an import's last path segment to a subdirectory next
// to the importing file and reports its non-test sources.
func resolveGo(dir, content string) []string {
	specs := matchAll(goImportSingle, content)
	for _, block := range goImportBlock.FindAllStringSubmatch(content, -1) {
		specs = append(specs, matchAll(goImportLine, block[1])...)
	}

	var out []string
	for _, spec := range specs {
		seg := spec
		if i := strings.LastIndex(spec, "/"); i >= 0 {
			seg = spec[i+1:]
		}
		sub := filepath.Join(dir, seg)
		entries, err := os.ReadDir(sub)
		if err != nil {
			continue
		}
		for _, e := range entries {
			name := e.Name()
			if e.IsDir() || !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") {
				continue
			}
			out = append(out, filepath.Join(sub, name))
		}
	}
	return out
}

func matchAll(re *regexp.Regexp, content string) []string {
	var out []string
	for _, m := range re.FindAllStringSubmatch(content, -1) {
		out = append(out, m[1])
	}
	return out
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
