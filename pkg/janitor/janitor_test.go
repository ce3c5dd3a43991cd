package janitor

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, root, rel string) {
	t.Helper()
	full := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0755))
	require.NoError(t, os.WriteFile(full, []byte("x"), 0644))
}

func TestRemoveFilesWithThumbnails(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "img/photo.jpg")
	writeFile(t, root, "img/photo_thumb.jpg")
	writeFile(t, root, "img/photo_small.jpg")
	writeFile(t, root, "img/photo_medium.jpg")
	writeFile(t, root, "img/other.jpg")

	removed := New(root).RemoveFiles([]string{"img/photo.jpg"})
	assert.Equal(t, 4, removed)

	// 本体与全部缩略图变体删除，无关文件保留
	_, err := os.Stat(filepath.Join(root, "img/photo.jpg"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(root, "img/photo_thumb.jpg"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(root, "img/other.jpg"))
	assert.NoError(t, err)
}

func TestRemoveFilesMissingIsNotError(t *testing.T) {
	root := t.TempDir()
	removed := New(root).RemoveFiles([]string{"img/gone.jpg"})
	assert.Equal(t, 0, removed)
}

func TestRemoveFilesWithoutThumbnails(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "att/doc.pdf")

	removed := New(root).RemoveFiles([]string{"att/doc.pdf"})
	assert.Equal(t, 1, removed)
}

func TestRemoveFilesRejectsEscapingPaths(t *testing.T) {
	root := t.TempDir()
	outside := filepath.Join(filepath.Dir(root), "victim.txt")
	require.NoError(t, os.WriteFile(outside, []byte("x"), 0644))
	defer os.Remove(outside)

	removed := New(root).RemoveFiles([]string{
		"../victim.txt",
		outside, // 绝对路径
		"",
	})
	assert.Equal(t, 0, removed)

	// 根目录之外的文件不受影响
	_, err := os.Stat(outside)
	assert.NoError(t, err)
}
