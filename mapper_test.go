package colorlight

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testCanvas, her pikseli (x, y, sabit) üçlüsüyle damgalanmış tuval üretir;
// planın hangi kaynak pikseli nereye taşıdığı böylece byte'lardan okunabilir.
func testCanvas(width, height int) *PixelBuffer {
	buf := NewPixelBuffer(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			buf.SetPixel(x, y, uint8(x), uint8(y), 0x7F)
		}
	}
	return buf
}

func testGrid() PanelGrid {
	return PanelGrid{
		PanelsX: 2, PanelsY: 1,
		PanelWidth: 8, PanelHeight: 4,
		ScanMode: 4,
		Cascade:  CascadeLeftToRight,
	}
}

func TestPlanFrameSizeMismatch(t *testing.T) {
	grid := testGrid()

	_, err := PlanFrame(testCanvas(8, 4), grid)
	assert.ErrorIs(t, err, ErrSizeMismatch)

	_, err = PlanFrame(nil, grid)
	assert.ErrorIs(t, err, ErrSizeMismatch)

	_, err = PlanFrame(testCanvas(16, 4), grid)
	assert.NoError(t, err)
}

func TestPlanFrameInvalidGrid(t *testing.T) {
	grid := testGrid()
	grid.ScanMode = 5
	_, err := PlanFrame(testCanvas(16, 4), grid)
	assert.ErrorIs(t, err, ErrInvalidGrid)
}

func TestPlanFrameLeftToRight(t *testing.T) {
	grid := testGrid()
	canvas := testCanvas(16, 4)

	runs, err := PlanFrame(canvas, grid)
	require.NoError(t, err)
	require.Len(t, runs, 4, "panel yüksekliği kadar tel satırı")

	for i, run := range runs {
		assert.Equal(t, i, run.Row)
		assert.Equal(t, 0, run.Offset)
		assert.Equal(t, 16, run.PixelCount())
		// Soldan sağa zincirde tel satırı tuval satırının kendisidir.
		assert.Equal(t, canvas.row(i), run.Pixels)
	}
}

func TestPlanFrameRightToLeft(t *testing.T) {
	grid := testGrid()
	grid.Cascade = CascadeRightToLeft
	canvas := testCanvas(16, 4)

	runs, err := PlanFrame(canvas, grid)
	require.NoError(t, err)
	require.Len(t, runs, 4)

	// Panel sırası tersine döner: önce sağ panel (x=8..15), sonra sol.
	row0 := runs[0].Pixels
	require.Len(t, row0, 16*3)
	assert.Equal(t, byte(8), row0[0], "ilk piksel sağ panelin sol kenarı")
	assert.Equal(t, byte(15), row0[7*3], "sağ panelin sağ kenarı")
	assert.Equal(t, byte(0), row0[8*3], "ardından sol panelin sol kenarı")
}

func TestPlanFrameVerticalCascade(t *testing.T) {
	grid := PanelGrid{
		PanelsX: 2, PanelsY: 2,
		PanelWidth: 4, PanelHeight: 4,
		ScanMode: 4,
		Cascade:  CascadeTopToBottom,
	}
	canvas := testCanvas(8, 8)

	runs, err := PlanFrame(canvas, grid)
	require.NoError(t, err)
	// Tel tuvali panel düzeyinde transpozedir: 2*2 panel * 4 satır.
	require.Len(t, runs, 16)

	for _, run := range runs {
		assert.Equal(t, 4, run.PixelCount(), "tel satırı tek panel genişliğinde")
	}

	// İlk zincir: sol sütun, üstten alta. Satır 0 = panel(0,0) satır 0.
	assert.Equal(t, byte(0), runs[0].Pixels[0])
	assert.Equal(t, byte(0), runs[0].Pixels[1])
	// Satır 4 = panel(0,1) satır 0 → tuval satırı 4.
	assert.Equal(t, byte(4), runs[4].Pixels[1])
	// İkinci zincir: sağ sütun. Satır 8 = panel(1,0) satır 0, x=4 kenarı.
	assert.Equal(t, byte(4), runs[8].Pixels[0])

	// BottomToTop panel satır sırasını çevirir.
	grid.Cascade = CascadeBottomToTop
	runs, err = PlanFrame(canvas, grid)
	require.NoError(t, err)
	assert.Equal(t, byte(4), runs[0].Pixels[1], "ilk tel satırı alt panelden gelir")
}

func TestPlanFrameChunksWideRows(t *testing.T) {
	grid := PanelGrid{
		PanelsX: 4, PanelsY: 1,
		PanelWidth: 256, PanelHeight: 4,
		ScanMode: 4,
	}
	canvas := testCanvas(1024, 4)

	runs, err := PlanFrame(canvas, grid)
	require.NoError(t, err)

	// 1024 piksellik satır 497+497+30 olarak bölünür.
	perRow := make(map[int][]PixelRun)
	for _, run := range runs {
		assert.LessOrEqual(t, run.PixelCount(), MaxPixelsPerRun)
		perRow[run.Row] = append(perRow[run.Row], run)
	}
	require.Len(t, perRow, 4)

	for row, chunks := range perRow {
		require.Len(t, chunks, 3, "satır %d", row)
		assert.Equal(t, 0, chunks[0].Offset)
		assert.Equal(t, 497, chunks[1].Offset)
		assert.Equal(t, 994, chunks[2].Offset)
		assert.Equal(t, 30, chunks[2].PixelCount())

		// Ofset sırasında birleştirilen parçalar satırı eksiksiz verir.
		var joined []byte
		for _, c := range chunks {
			joined = append(joined, c.Pixels...)
		}
		assert.Equal(t, canvas.row(row), joined)
	}
}

func TestPlanFrameDeterministic(t *testing.T) {
	grid := testGrid()
	canvas := testCanvas(16, 4)

	a, err := PlanFrame(canvas, grid)
	require.NoError(t, err)
	b, err := PlanFrame(canvas, grid)
	require.NoError(t, err)

	require.Equal(t, len(a), len(b))
	for i := range a {
		assert.Equal(t, a[i].Row, b[i].Row)
		assert.Equal(t, a[i].Offset, b[i].Offset)
		assert.Equal(t, a[i].Pixels, b[i].Pixels)
	}
}

func TestBlockRowOrder(t *testing.T) {
	// 1/4 tarama, 8 satırlık panel: fiziksel satır 0 = kaynak {0, 4}.
	assert.Equal(t, []int{0, 4}, BlockRowOrder(0, 4, 8))
	assert.Equal(t, []int{3, 7}, BlockRowOrder(3, 4, 8))
	assert.Nil(t, BlockRowOrder(4, 4, 8), "katlanan satırlar boş küme döner")

	// Tarama moduna bölünmeyen yükseklik birebir geçer.
	assert.Equal(t, []int{2}, BlockRowOrder(2, 4, 6))
}

func TestPlanFrameWithBlockRowOrder(t *testing.T) {
	grid := PanelGrid{
		PanelsX: 1, PanelsY: 1,
		PanelWidth: 8, PanelHeight: 8,
		ScanMode: 4,
		Cascade:  CascadeLeftToRight,
	}
	canvas := testCanvas(8, 8)

	runs, err := PlanFrameWithOrder(canvas, grid, BlockRowOrder)
	require.NoError(t, err)
	// 8 kaynak satır, 4 fiziksel satıra katlanır; her tel satırı iki kaynak
	// satırı art arda taşır.
	require.Len(t, runs, 4)
	for i, run := range runs {
		assert.Equal(t, i, run.Row)
		require.Equal(t, 16, run.PixelCount())
		want := append(append([]byte{}, canvas.row(i)...), canvas.row(i+4)...)
		assert.Equal(t, want, run.Pixels)
	}
}
