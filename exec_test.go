package memegen

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExec_SingleFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "in.png")
	dst := filepath.Join(dir, "out.png")
	require.NoError(t, SaveImage(src, newCanvas(200, 150, gray)))

	c := &Captioner{Top: []string{"file"}}
	require.NoError(t, c.Execute(&Ops{Src: src, Dst: dst, PipeName: "-"}))

	img, err := LoadImage(dst)
	require.NoError(t, err)
	assert.Equal(t, 200, img.Bounds().Dx())
	assert.NotEqual(t, newCanvas(200, 150, gray).Pix, img.Pix)
}

func TestExec_UnsupportedDestination(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "in.png")
	require.NoError(t, SaveImage(src, newCanvas(20, 20, gray)))

	c := &Captioner{}
	err := c.Execute(&Ops{Src: src, Dst: filepath.Join(dir, "out.webp"), PipeName: "-"})
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	err = c.Execute(&Ops{Src: filepath.Join(dir, "missing.png"), Dst: filepath.Join(dir, "out.png")})
	assert.Error(t, err)
}

func TestExec_Directory(t *testing.T) {
	src, dst := t.TempDir(), t.TempDir()
	names := []string{"a.png", "b.jpg", "c.bmp", "D.PNG"}
	for _, name := range names {
		require.NoError(t, SaveImage(filepath.Join(src, name), newCanvas(120, 90, gray)))
	}
	require.NoError(t, os.WriteFile(filepath.Join(src, "notes.txt"), []byte("skip me"), 0o644))

	c := &Captioner{Bottom: []string{"batch"}}
	require.NoError(t, c.Execute(&Ops{Src: src, Dst: dst, Workers: 2, PipeName: "-"}))

	for _, name := range names {
		assert.FileExists(t, filepath.Join(dst, name))
	}
	assert.NoFileExists(t, filepath.Join(dst, "notes.txt"))
}

func TestExec_WalkDirFiltersExtensions(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "nested"), 0o755))
	for _, name := range []string{"one.png", "nested/two.gif", "three.svg", "FOUR.JPG"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}

	done := make(chan interface{})
	defer close(done)

	paths, errc := walkDir(done, dir, SupportedExtensions)
	var got []string
	for p := range paths {
		rel, err := filepath.Rel(dir, p)
		require.NoError(t, err)
		got = append(got, rel)
	}
	require.NoError(t, <-errc)
	assert.ElementsMatch(t, []string{"one.png", filepath.Join("nested", "two.gif"), "FOUR.JPG"}, got)
}

func TestExec_UppercaseDestinationExtension(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "in.png")
	dst := filepath.Join(dir, "photo.JPG")
	require.NoError(t, SaveImage(src, newCanvas(80, 60, gray)))

	c := &Captioner{Top: []string{"caps"}}
	require.NoError(t, c.Execute(&Ops{Src: src, Dst: dst, PipeName: "-"}))

	img, err := LoadImage(dst)
	require.NoError(t, err)
	assert.Equal(t, 80, img.Bounds().Dx())
}
