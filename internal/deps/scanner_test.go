package deps_test

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/actlog-project/actlog/internal/deps"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestRelated_Python(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "utils.py"), "def greet(): pass\n")
	writeFile(t, filepath.Join(root, "config.py"), "DEBUG = True\n")
	main := filepath.Join(root, "main.py")
	content := "from utils import greet\nimport config\nimport os\n"
	writeFile(t, main, content)

	s := deps.NewScanner(root)
	related := s.Related(main, []byte(content))

	assert.Equal(t, []string{
		filepath.Join(root, "config.py"),
		filepath.Join(root, "utils.py"),
	}, related)
}

func TestRelated_PythonPackage(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "pkg", "helpers", "__init__.py"), "")
	main := filepath.Join(root, "main.py")
	content := "from pkg.helpers import run\n"
	writeFile(t, main, content)

	related := deps.NewScanner(root).Related(main, []byte(content))
	assert.Equal(t, []string{filepath.Join(root, "pkg", "helpers", "__init__.py")}, related)
}

func TestRelated_PythonStdlibIgnored(t *testing.T) {
	root := t.TempDir()
	main := filepath.Join(root, "main.py")
	content := "import os\nimport sys\nfrom pathlib import Path\n"
	writeFile(t, main, content)

	related := deps.NewScanner(root).Related(main, []byte(content))
	assert.Empty(t, related)
}

func TestRelated_JavaScript(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "utils.js"), "export const x = 1\n")
	writeFile(t, filepath.Join(root, "lib", "index.ts"), "export {}\n")
	main := filepath.Join(root, "app.js")
	content := `import { x } from './utils'
const lib = require('./lib')
import React from 'react'
`
	writeFile(t, main, content)

	related := deps.NewScanner(root).Related(main, []byte(content))
	assert.Equal(t, []string{
		filepath.Join(root, "lib", "index.ts"),
		filepath.Join(root, "utils.js"),
	}, related)
}

func TestRelated_Go(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "store", "store.go"), "package store\n")
	writeFile(t, filepath.Join(root, "store", "store_test.go"), "package store\n")
	main := filepath.Join(root, "main.go")
	content := "package main\n\nimport (\n\t\"fmt\"\n\n\t\"example.com/app/store\"\n)\n"
	writeFile(t, main, content)

	related := deps.NewScanner(root).Related(main, []byte(content))
	assert.Equal(t, []string{filepath.Join(root, "store", "store.go")}, related)
}

func TestRelated_NeverEscapesRoot(t *testing.T) {
	parent := t.TempDir()
	root := filepath.Join(parent, "watched")
	writeFile(t, filepath.Join(parent, "secret.js"), "export {}\n")
	main := filepath.Join(root, "app.js")
	content := "import s from '../secret'\n"
	writeFile(t, main, content)

	related := deps.NewScanner(root).Related(main, []byte(content))
	assert.Empty(t, related)
}

func TestRelated_ExcludesSelf(t *testing.T) {
	root := t.TempDir()
	main := filepath.Join(root, "self.py")
	content := "import self\n"
	writeFile(t, main, content)

	related := deps.NewScanner(root).Related(main, []byte(content))
	assert.Empty(t, related)
}

func TestRelated_CapKeepsSortedPrefix(t *testing.T) {
	root := t.TempDir()
	var names []string
	for i := 0; i < 20; i++ {
		name := fmt.Sprintf("mod%02d", i)
		names = append(names, name)
		writeFile(t, filepath.Join(root, name+".py"), "VALUE = 1\n")
	}

	// Import in reverse order; the cap must not depend on it.
	var b strings.Builder
	for i := len(names) - 1; i >= 0; i-- {
		fmt.Fprintf(&b, "import %s\n", names[i])
	}
	main := filepath.Join(root, "main.py")
	writeFile(t, main, b.String())

	related := deps.NewScanner(root).Related(main, []byte(b.String()))
	require.Len(t, related, 16)

	var want []string
	for _, name := range names[:16] {
		want = append(want, filepath.Join(root, name+".py"))
	}
	assert.Equal(t, want, related)
}

func TestRelated_UntrackedLanguage(t *testing.T) {
	root := t.TempDir()
	main := filepath.Join(root, "notes.md")
	writeFile(t, main, "# notes\n")

	related := deps.NewScanner(root).Related(main, []byte("# notes\n"))
	assert.Empty(t, related)
}
