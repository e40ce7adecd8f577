package colorlight

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func templateDoc(t *testing.T) *Document {
	t.Helper()
	doc, err := BuildTemplate(TemplateOptions{
		Grid: PanelGrid{
			PanelsX: 2, PanelsY: 1,
			PanelWidth: 64, PanelHeight: 32,
			ScanMode: 16,
			Cascade:  CascadeRightToLeft,
			Order:    OrderBGR,
		},
	})
	require.NoError(t, err)
	return doc
}

func TestParseHeaderRejects(t *testing.T) {
	_, err := ParseHeader([]byte("RCV"))
	assert.ErrorIs(t, err, ErrTooShort)

	bad := make([]byte, plainBodyOffset)
	copy(bad, "XXXX")
	_, err = ParseHeader(bad)
	assert.ErrorIs(t, err, ErrBadMagic)
}

func TestLoadRejectsCorruptBody(t *testing.T) {
	doc := templateDoc(t)
	data, err := doc.Serialize(true)
	require.NoError(t, err)

	// zlib akışının ortasını boz.
	data[compressedBodyOffset+4] ^= 0xFF
	data[compressedBodyOffset+5] ^= 0xFF
	_, err = Load(data)
	assert.ErrorIs(t, err, ErrDecompress)
}

func TestFieldRoundTrip(t *testing.T) {
	doc := templateDoc(t)

	cases := map[string]float64{
		"module_width":         128,
		"module_height":        64,
		"data_polarity":        1,
		"scan_mode":            32,
		"white_balance_r":      80,
		"white_balance_g":      90,
		"white_balance_b":      100,
		"cascade_direction":    float64(CascadeLeftToRight),
		"cabinet_width":        256,
		"cabinet_height":       128,
		"data_groups":          2,
		"grayscale_max":        65535,
		"grayscale_refinement": 1,
		"brightness_level":     64,
		"decoder_ic":           3,
		"brightness_percent":   75,
		"grayscale_mode":       5,
	}
	for name, value := range cases {
		require.NoError(t, doc.SetField(name, value), name)
		got, err := doc.GetField(name)
		require.NoError(t, err, name)
		assert.Equal(t, value, got, name)
	}

	// Kayan noktalı alanlar float32 hassasiyetinde korunur.
	require.NoError(t, doc.SetField("gamma", 2.8))
	got, err := doc.GetField("gamma")
	require.NoError(t, err)
	assert.InDelta(t, 2.8, got, 0.0001)

	require.NoError(t, doc.SetField("min_oe_ns", 48.5))
	got, err = doc.GetField("min_oe_ns")
	require.NoError(t, err)
	assert.InDelta(t, 48.5, got, 0.0001)
}

func TestUnknownField(t *testing.T) {
	doc := templateDoc(t)
	_, err := doc.GetField("nonexistent")
	assert.ErrorIs(t, err, ErrUnknownField)
	assert.ErrorIs(t, doc.SetField("nonexistent", 1), ErrUnknownField)
}

func TestFieldOutOfRange(t *testing.T) {
	doc := &Document{body: make([]byte, 0x100)}
	_, err := doc.GetField("brightness_level")
	assert.ErrorIs(t, err, ErrFieldOutOfRange)
	assert.ErrorIs(t, doc.SetField("brightness_level", 1), ErrFieldOutOfRange)

	// Gövdenin içinde kalan alanlar çalışmaya devam eder.
	_, err = doc.GetField("scan_mode")
	assert.NoError(t, err)
}

func TestPercentScaling(t *testing.T) {
	doc := templateDoc(t)

	// %50 → 128 olarak saklanır, %50 olarak geri okunur.
	require.NoError(t, doc.SetField("white_balance_r", 50))
	spec := fieldTable["white_balance_r"]
	assert.Equal(t, byte(128), doc.body[spec.offset])

	got, err := doc.GetField("white_balance_r")
	require.NoError(t, err)
	assert.Equal(t, 50.0, got)

	// Uç değerler tam eşlenir.
	require.NoError(t, doc.SetField("white_balance_r", 100))
	assert.Equal(t, byte(255), doc.body[spec.offset])
	require.NoError(t, doc.SetField("white_balance_r", 0))
	assert.Equal(t, byte(0), doc.body[spec.offset])
}

func TestHeaderMirrorsStayInSync(t *testing.T) {
	doc := templateDoc(t)

	require.NoError(t, doc.SetField("module_width", 80))
	require.NoError(t, doc.SetField("scan_mode", 8))
	assert.Equal(t, uint16(80), doc.Header().ModuleWidth)
	assert.Equal(t, uint8(8), doc.Header().ScanNumber)

	// Diske yazılan başlık da gövdeyle aynıdır.
	data, err := doc.Serialize(false)
	require.NoError(t, err)
	h, err := ParseHeader(data)
	require.NoError(t, err)
	assert.Equal(t, uint16(80), h.ModuleWidth)
	assert.Equal(t, uint8(8), h.ScanNumber)
}

func TestSerializeRoundTripPlain(t *testing.T) {
	doc := templateDoc(t)
	require.NoError(t, doc.SetField("gamma", 2.6))

	data, err := doc.Serialize(false)
	require.NoError(t, err)
	assert.Equal(t, []byte("RCVP"), data[0:4])

	loaded, err := Load(data)
	require.NoError(t, err)
	assert.False(t, loaded.Header().Compressed())
	assert.Equal(t, doc.BodyLen(), loaded.BodyLen())

	got, err := loaded.GetField("gamma")
	require.NoError(t, err)
	assert.InDelta(t, 2.6, got, 0.0001)
}

func TestSerializeRoundTripCompressed(t *testing.T) {
	doc := templateDoc(t)
	require.NoError(t, doc.SetField("brightness_percent", 60))

	data, err := doc.Serialize(true)
	require.NoError(t, err)
	assert.Equal(t, []byte("RCVB"), data[0:4])
	assert.Less(t, len(data), doc.BodyLen(), "seyrek gövde sıkışmalı")

	loaded, err := Load(data)
	require.NoError(t, err)
	assert.True(t, loaded.Header().Compressed())
	assert.Equal(t, doc.body, loaded.body, "gövde byte'ı byte'ına korunur")
}

func TestLoadPreservesReservedHeaderBytes(t *testing.T) {
	doc := templateDoc(t)

	// Düz türev: 0x0C-0x0F ayrılmış başlık aralığına işaretleyici koy.
	data, err := doc.Serialize(false)
	require.NoError(t, err)
	data[0x0C] = 0xAB
	data[0x0D] = 0xCD

	loaded, err := Load(data)
	require.NoError(t, err)
	out, err := loaded.Serialize(false)
	require.NoError(t, err)
	assert.Equal(t, byte(0xAB), out[0x0C])
	assert.Equal(t, byte(0xCD), out[0x0D])

	// Alan yazımı işaretleyicilere dokunmaz.
	require.NoError(t, loaded.SetField("gamma", 2.4))
	out, err = loaded.Serialize(false)
	require.NoError(t, err)
	assert.Equal(t, byte(0xAB), out[0x0C])

	// Sıkıştırmalı türev: 0x14-0x1F aralığı da korunur.
	data, err = doc.Serialize(true)
	require.NoError(t, err)
	data[0x0E] = 0x11
	data[0x1A] = 0x22

	loaded, err = Load(data)
	require.NoError(t, err)
	out, err = loaded.Serialize(true)
	require.NoError(t, err)
	assert.Equal(t, byte(0x11), out[0x0E])
	assert.Equal(t, byte(0x22), out[0x1A])
}

func TestLoadPreservesReservedBytes(t *testing.T) {
	doc := templateDoc(t)

	// Belgelenmemiş bir aralığa işaretleyici yaz; yükle-kaydet döngüsü
	// dokunmamalı.
	doc.body[0x500] = 0xAB
	doc.body[0x501] = 0xCD

	data, err := doc.Serialize(false)
	require.NoError(t, err)
	loaded, err := Load(data)
	require.NoError(t, err)

	assert.Equal(t, byte(0xAB), loaded.body[0x500])
	assert.Equal(t, byte(0xCD), loaded.body[0x501])
}

func TestBuildTemplateDefaults(t *testing.T) {
	doc := templateDoc(t)

	for name, want := range map[string]float64{
		"module_width":       64,
		"module_height":      32,
		"scan_mode":          16,
		"cascade_direction":  float64(CascadeRightToLeft),
		"cabinet_width":      128,
		"cabinet_height":     32,
		"data_groups":        2,
		"white_balance_r":    100,
		"brightness_percent": 100,
		"brightness_level":   16,
		"grayscale_max":      4096,
	} {
		got, err := doc.GetField(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}

	gamma, err := doc.GetField("gamma")
	require.NoError(t, err)
	assert.InDelta(t, 2.2, gamma, 0.0001)

	// Başlık kopyaları gövdeyle tutarlı başlar.
	assert.Equal(t, uint16(64), doc.Header().ModuleWidth)
	assert.Equal(t, uint8(16), doc.Header().ScanNumber)
}

func TestBuildTemplateRejectsBadGrid(t *testing.T) {
	_, err := BuildTemplate(TemplateOptions{Grid: PanelGrid{}})
	assert.ErrorIs(t, err, ErrInvalidGrid)
}

func TestGridFromDocument(t *testing.T) {
	doc := templateDoc(t)

	grid, err := GridFromDocument(doc)
	require.NoError(t, err)
	assert.Equal(t, 2, grid.PanelsX)
	assert.Equal(t, 1, grid.PanelsY)
	assert.Equal(t, 64, grid.PanelWidth)
	assert.Equal(t, 32, grid.PanelHeight)
	assert.Equal(t, 16, grid.ScanMode)
	assert.Equal(t, CascadeRightToLeft, grid.Cascade)
	assert.Equal(t, OrderBGR, grid.Order)

	// Kabin boyutu modüle bölünmüyorsa hata.
	require.NoError(t, doc.SetField("cabinet_width", 100))
	_, err = GridFromDocument(doc)
	assert.ErrorIs(t, err, ErrInvalidGrid)
}
