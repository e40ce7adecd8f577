package colorlight

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wall.yaml")

	p := DefaultProfile()
	p.PanelsX = 3
	p.Cascade = "top-to-bottom"
	p.ColorOrder = "GRB"
	require.NoError(t, SaveProfile(path, p))

	loaded, err := LoadProfile(path)
	require.NoError(t, err)
	assert.Equal(t, p, loaded)
}

func TestLoadProfilePartial(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wall.yaml")
	require.NoError(t, os.WriteFile(path, []byte("fps: 60\npanels_x: 4\n"), 0o644))

	p, err := LoadProfile(path)
	require.NoError(t, err)
	assert.Equal(t, 60, p.FPS)
	assert.Equal(t, 4, p.PanelsX)
	// Dosyada olmayan alanlar varsayılanda kalır.
	assert.Equal(t, 32, p.PanelHeight)
	assert.Equal(t, "right-to-left", p.Cascade)
}

func TestLoadProfileMissingFile(t *testing.T) {
	_, err := LoadProfile(filepath.Join(t.TempDir(), "yok.yaml"))
	assert.Error(t, err)
}

func TestProfileGrid(t *testing.T) {
	p := DefaultProfile()
	p.PanelsX, p.PanelsY = 2, 2
	p.Cascade = "bottom-to-top"

	grid, err := p.Grid()
	require.NoError(t, err)
	assert.Equal(t, CascadeBottomToTop, grid.Cascade)
	assert.Equal(t, 128, grid.CanvasWidth())
	assert.Equal(t, 64, grid.CanvasHeight())

	p.Cascade = "diagonal"
	_, err = p.Grid()
	assert.ErrorIs(t, err, ErrInvalidGrid)

	p.Cascade = "left-to-right"
	p.ScanMode = 7
	_, err = p.Grid()
	assert.ErrorIs(t, err, ErrInvalidGrid)
}
