package pathutil_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/unicode/norm"

	"github.com/actlog-project/actlog/pkg/errclass"
	"github.com/actlog-project/actlog/pkg/pathutil"
)

func TestExpandUser_Tilde(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	got, err := pathutil.ExpandUser("~/Documents")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "Documents"), got)

	got, err = pathutil.ExpandUser("~")
	require.NoError(t, err)
	assert.Equal(t, home, got)
}

func TestExpandUser_Empty(t *testing.T) {
	_, err := pathutil.ExpandUser("")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errclass.ErrPathInvalid))
}

func TestExpandUser_AbsolutePassthrough(t *testing.T) {
	got, err := pathutil.ExpandUser("/tmp/watched")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/watched", got)
}

func TestIsSkipped(t *testing.T) {
	skip := []string{"__pycache__", ".git", "node_modules", "venv"}

	assert.True(t, pathutil.IsSkipped("/home/u/proj/.git/HEAD", skip))
	assert.True(t, pathutil.IsSkipped("/home/u/proj/node_modules/pkg/index.js", skip))
	assert.False(t, pathutil.IsSkipped("/home/u/proj/src/main.py", skip))
	// Substring of a component is not a match.
	assert.False(t, pathutil.IsSkipped("/home/u/proj/my_venv_notes.txt", skip))
	assert.False(t, pathutil.IsSkipped("/home/u/proj/main.py", nil))
}

func TestIsSkipped_NFDComponent(t *testing.T) {
	// macOS reports file names in NFD; skip matching must still hit.
	nfd := norm.NFD.String("café")
	assert.True(t, pathutil.IsSkipped("/home/u/"+nfd+"/x.py", []string{"café"}))
}

func TestHasTrackedExtension(t *testing.T) {
	exts := []string{".py", ".go", ".js"}

	assert.True(t, pathutil.HasTrackedExtension("/x/script.py", exts))
	assert.True(t, pathutil.HasTrackedExtension("/x/SCRIPT.PY", exts))
	assert.False(t, pathutil.HasTrackedExtension("/x/binary.exe", exts))
	assert.False(t, pathutil.HasTrackedExtension("/x/Makefile", exts))
}

func TestValidateWatchPath(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, pathutil.ValidateWatchPath(dir))

	err := pathutil.ValidateWatchPath(filepath.Join(dir, "missing"))
	assert.True(t, errors.Is(err, errclass.ErrPathInvalid))

	file := filepath.Join(dir, "f.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))
	err = pathutil.ValidateWatchPath(file)
	assert.True(t, errors.Is(err, errclass.ErrPathInvalid))
}
