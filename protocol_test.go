package colorlight

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDisplayFrameHeader(t *testing.T) {
	frame := EncodeDisplayFrame(DisplayRefresh, buildRefreshPayload(200, [3]uint8{10, 20, 30}))

	require.Len(t, frame, displayHeaderLen+98)
	assert.Equal(t, dstMAC[:], frame[0:6])
	assert.Equal(t, srcMAC[:], frame[6:12])
	assert.Equal(t, byte(DisplayRefresh), frame[12])

	payload := frame[displayHeaderLen:]
	assert.Equal(t, byte(0x07), payload[0])
	assert.Equal(t, byte(200), payload[22])
	assert.Equal(t, byte(0x05), payload[23])
	assert.Equal(t, []byte{10, 20, 30}, payload[25:28])
}

func TestBrightnessPayloadLayout(t *testing.T) {
	payload := buildBrightnessPayload([3]uint8{1, 2, 3})
	require.Len(t, payload, 63)
	assert.Equal(t, []byte{1, 2, 3, 0xFF}, payload[0:4])
	assert.Equal(t, make([]byte, 59), payload[4:])
}

func TestEncodePixelRun(t *testing.T) {
	run := PixelRun{
		Row:    0x0102,
		Offset: 0x0304,
		Pixels: []byte{10, 20, 30, 40, 50, 60},
	}
	frame, err := EncodePixelRun(run, OrderBGR)
	require.NoError(t, err)

	require.Len(t, frame, displayHeaderLen+pixelRunHeaderLen+6)
	assert.Equal(t, byte(DisplayPixelData), frame[12])

	payload := frame[displayHeaderLen:]
	assert.Equal(t, []byte{0x01, 0x02}, payload[0:2], "satır BE")
	assert.Equal(t, []byte{0x03, 0x04}, payload[2:4], "ofset BE")
	assert.Equal(t, []byte{0x00, 0x02}, payload[4:6], "sayı BE")
	assert.Equal(t, byte(0x08), payload[6])
	assert.Equal(t, byte(0x88), payload[7])

	// BGR sırası: her piksel b, g, r olarak yazılır.
	assert.Equal(t, []byte{30, 20, 10, 60, 50, 40}, payload[8:])
}

func TestEncodePixelRunColorOrders(t *testing.T) {
	run := PixelRun{Pixels: []byte{1, 2, 3}} // R=1 G=2 B=3

	for order, want := range map[ColorOrder][]byte{
		OrderRGB: {1, 2, 3},
		OrderBGR: {3, 2, 1},
		OrderGRB: {2, 1, 3},
	} {
		frame, err := EncodePixelRun(run, order)
		require.NoError(t, err, string(order))
		assert.Equal(t, want, frame[displayHeaderLen+pixelRunHeaderLen:], string(order))
	}
}

func TestEncodePixelRunTooLarge(t *testing.T) {
	run := PixelRun{Pixels: make([]byte, (MaxPixelsPerRun+1)*3)}
	_, err := EncodePixelRun(run, OrderBGR)
	assert.ErrorIs(t, err, ErrRunTooLarge)

	run.Pixels = make([]byte, MaxPixelsPerRun*3)
	frame, err := EncodePixelRun(run, OrderBGR)
	require.NoError(t, err)
	assert.Len(t, frame, displayHeaderLen+pixelRunHeaderLen+MaxPixelsPerRun*3)
}

func TestEncodePixelRunMisaligned(t *testing.T) {
	_, err := EncodePixelRun(PixelRun{Pixels: []byte{1, 2, 3, 4}}, OrderBGR)
	assert.ErrorIs(t, err, ErrRunMisaligned)

	_, err = EncodePixelRun(PixelRun{Pixels: []byte{1, 2}}, OrderBGR)
	assert.ErrorIs(t, err, ErrRunMisaligned)
}

func TestEncodePixelRunUnknownOrder(t *testing.T) {
	_, err := EncodePixelRun(PixelRun{Pixels: []byte{1, 2, 3}}, ColorOrder("RGBW"))
	assert.ErrorIs(t, err, ErrInvalidColorOrder)
}

func TestConfigFrameRoundTrip(t *testing.T) {
	var addr ControllerAddress
	addr[0] = 0xDE
	addr[15] = 0xAD

	payload := []byte{1, 2, 3, 4, 5}
	frame, err := EncodeConfigFrame(addr, CfgBasicParam, 7, payload)
	require.NoError(t, err)
	require.Len(t, frame, configHeaderLen+len(payload))

	assert.Equal(t, []byte{0x08, 0x80}, frame[12:14], "EtherType")
	assert.Equal(t, syncPattern[:], frame[30:38])

	decoded, err := DecodeConfigFrame(frame)
	require.NoError(t, err)
	assert.Equal(t, addr, decoded.Controller)
	assert.Equal(t, CfgBasicParam, decoded.Type)
	assert.Equal(t, uint8(7), decoded.Sequence)
	assert.Equal(t, payload, decoded.Payload)
}

func TestConfigFrameFixedLength(t *testing.T) {
	// Parlaklık çerçevesi, yükten bağımsız 93 byte'a doldurulur; yükün son
	// byte'ı 0x2A ofsetine düşer.
	frame, err := EncodeConfigFrame(BroadcastAddress, CfgBrightness, 0, []byte{0xFF, 0xFF, 0xFF})
	require.NoError(t, err)
	require.Len(t, frame, 93)
	assert.Equal(t, byte(0xFF), frame[0x2A])
	assert.Equal(t, make([]byte, 93-0x2B), frame[0x2B:], "dolgu sıfır olmalı")

	// Keşif isteği 104 byte'tır.
	frame, err = EncodeConfigFrame(BroadcastAddress, CfgDiscoveryRequest, 0, buildDiscoveryPayload())
	require.NoError(t, err)
	assert.Len(t, frame, 104)

	// Sabit uzunluğu aşan yük reddedilir.
	_, err = EncodeConfigFrame(BroadcastAddress, CfgBrightness, 0, make([]byte, 64))
	assert.ErrorIs(t, err, ErrPayloadTooLarge)
}

func TestDecodeConfigFrameRejects(t *testing.T) {
	_, err := DecodeConfigFrame(make([]byte, configHeaderLen-1))
	assert.ErrorIs(t, err, ErrTooShort)

	good, err := EncodeConfigFrame(BroadcastAddress, CfgRouting, 0, nil)
	require.NoError(t, err)

	// EtherType bozulduğunda.
	bad := bytes.Clone(good)
	bad[12] = 0x00
	_, err = DecodeConfigFrame(bad)
	assert.ErrorIs(t, err, ErrBadSync)

	// Senkron deseninin tek byte'ı bozulduğunda.
	bad = bytes.Clone(good)
	bad[33] ^= 0xFF
	_, err = DecodeConfigFrame(bad)
	assert.ErrorIs(t, err, ErrBadSync)
}

func TestBasicParamPayload(t *testing.T) {
	grid := PanelGrid{
		PanelsX: 3, PanelsY: 2,
		PanelWidth: 64, PanelHeight: 32,
		ScanMode: 16,
	}
	payload := buildBasicParamPayload(grid, Color8Bit)
	require.Len(t, payload, 32)
	assert.Equal(t, []byte{192, 0}, payload[0:2], "toplam genişlik LE")
	assert.Equal(t, []byte{64, 0}, payload[2:4], "toplam yükseklik LE")
	assert.Equal(t, byte(64), payload[6])
	assert.Equal(t, byte(32), payload[7])
	assert.Equal(t, byte(16), payload[8])
}

func TestRoutingPayload(t *testing.T) {
	payload := buildRoutingPayload(DefaultPortRoutes())
	require.Len(t, payload, 25)
	assert.Equal(t, byte(0), payload[0])
	for i := 0; i < 8; i++ {
		assert.Equal(t, byte(i), payload[1+i*3], "port %d indeksi", i)
		assert.Equal(t, byte(0x01), payload[3+i*3], "port %d etkin biti", i)
	}
}

func TestParseDiscoveryResponse(t *testing.T) {
	var addr ControllerAddress
	copy(addr[:], []byte{0xAA, 0xBB, 0xCC})

	// Adres yükün başında taşınır.
	payload := make([]byte, 32)
	copy(payload, addr[:])
	frame := &ConfigFrame{Type: CfgDiscoveryResponse, Payload: payload}
	got, ok := parseDiscoveryResponse(frame)
	require.True(t, ok)
	assert.Equal(t, addr, got)

	// Yük sıfırsa başlıktaki denetleyici adresi kullanılır.
	frame = &ConfigFrame{Type: CfgDiscoveryResponse, Controller: addr, Payload: make([]byte, 32)}
	got, ok = parseDiscoveryResponse(frame)
	require.True(t, ok)
	assert.Equal(t, addr, got)

	// Yanıt dışındaki tipler yok sayılır.
	_, ok = parseDiscoveryResponse(&ConfigFrame{Type: CfgBasicParam})
	assert.False(t, ok)
}
