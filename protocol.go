package colorlight

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// ─── Çerçeve Oluşturma / Çözme ──────────────────────────────────────────────────
//
// Bu dosya, ColorLight protokolünün iki çerçeve biçimi için saf (yan etkisiz)
// kodlama ve çözme fonksiyonlarını içerir. Piksel adresleme alanları
// big-endian, yapılandırma dosyası alanları little-endian'dır; iki format
// birbirinden bağımsız tanımlıdır ve karıştırılmamalıdır.
//
// Görüntü Çerçevesi Formatı:
//   [0x00-0x05] Hedef MAC   11:22:33:44:55:66 (sabit)
//   [0x06-0x0B] Kaynak MAC  22:22:33:44:55:66 (sabit)
//   [0x0C]      Tip         0x01 tetik, 0x0A parlaklık, 0x55 piksel verisi
//   [0x0D+]     Yük         Tipe göre değişir
//
// Yapılandırma Çerçevesi Formatı:
//   [0x00-0x05] Hedef MAC
//   [0x06-0x0B] Kaynak MAC
//   [0x0C-0x0D] EtherType   0x0880
//   [0x0E-0x1D] Denetleyici adresi (16 byte, tümü sıfır = yayın)
//   [0x1E-0x25] Senkron deseni 55:66:11:22:33:44:55:66
//   [0x26]      Paket tipi
//   [0x27]      Sıra numarası
//   [0x28+]     Yük (bazı tipler sabit toplam uzunluğa sıfırla doldurulur)

// cfgFixedTotal, sabit toplam çerçeve uzunluğu belgelenmiş yapılandırma
// tiplerini listeler. Tabloda olmayan tipler yük uzunluğu kadar yer kaplar.
var cfgFixedTotal = map[CfgType]int{
	CfgBrightness:       93,  // 40 byte başlık + 53 byte yük
	CfgDiscoveryRequest: 104, // 40 byte başlık + 64 byte yük
}

// ConfigFrame, çözümlenmiş bir yapılandırma çerçevesidir.
type ConfigFrame struct {
	Controller ControllerAddress
	Type       CfgType
	Sequence   uint8
	Payload    []byte
}

// EncodeDisplayFrame, kısa formatlı bir görüntü çerçevesi oluşturur.
// Sabit 13 byte'lık başlığın (adres sabitleri + tip) ardına yükü ekler;
// tipin zorunlu kıldığının ötesinde dolgu yapılmaz.
func EncodeDisplayFrame(typ DisplayType, payload []byte) []byte {
	frame := make([]byte, displayHeaderLen+len(payload))
	copy(frame[0:6], dstMAC[:])
	copy(frame[6:12], srcMAC[:])
	frame[12] = byte(typ)
	copy(frame[displayHeaderLen:], payload)
	return frame
}

// EncodePixelRun, bir piksel koşusunu tel formatına kodlar.
// Renk sırası dönüşümü burada uygulanır; koşu içindeki veriler ham RGB'dir.
//
// Yük Formatı (tip byte'ından sonra):
//
//	[0-1] Satır numarası (2B BE)
//	[2-3] Piksel ofseti (2B BE)
//	[4-5] Piksel sayısı (2B BE)
//	[6]   0x08 (sabit)
//	[7]   0x88 (sabit)
//	[8+]  count*3 byte renk verisi (yapılandırılan sırada)
func EncodePixelRun(run PixelRun, order ColorOrder) ([]byte, error) {
	if len(run.Pixels)%3 != 0 {
		return nil, fmt.Errorf("%w: %d byte", ErrRunMisaligned, len(run.Pixels))
	}
	count := run.PixelCount()
	if count > MaxPixelsPerRun {
		return nil, fmt.Errorf("%w: %d piksel", ErrRunTooLarge, count)
	}

	offsets, err := order.Offsets()
	if err != nil {
		return nil, err
	}

	payload := make([]byte, pixelRunHeaderLen+count*3)
	binary.BigEndian.PutUint16(payload[0:2], uint16(run.Row))
	binary.BigEndian.PutUint16(payload[2:4], uint16(run.Offset))
	binary.BigEndian.PutUint16(payload[4:6], uint16(count))
	payload[6] = 0x08
	payload[7] = 0x88

	// RGB girdisini panelin kanal sırasına çevir.
	out := payload[pixelRunHeaderLen:]
	for i := 0; i < count; i++ {
		out[i*3+offsets[0]] = run.Pixels[i*3]   // R
		out[i*3+offsets[1]] = run.Pixels[i*3+1] // G
		out[i*3+offsets[2]] = run.Pixels[i*3+2] // B
	}

	return EncodeDisplayFrame(DisplayPixelData, payload), nil
}

// EncodeConfigFrame, senkron desenli uzun formatlı bir yapılandırma çerçevesi
// oluşturur. Tip için sabit toplam uzunluk belgelenmişse yük o uzunluğa
// sıfırla doldurulur; yük sığmazsa ErrPayloadTooLarge döner.
func EncodeConfigFrame(controller ControllerAddress, typ CfgType, sequence uint8, payload []byte) ([]byte, error) {
	total := configHeaderLen + len(payload)
	if fixed, ok := cfgFixedTotal[typ]; ok {
		if total > fixed {
			return nil, fmt.Errorf("%w: %s tipi %d byte, sabit uzunluk %d",
				ErrPayloadTooLarge, typ, total, fixed)
		}
		total = fixed
	}

	frame := make([]byte, total)
	copy(frame[0:6], dstMAC[:])
	copy(frame[6:12], srcMAC[:])
	binary.BigEndian.PutUint16(frame[12:14], EtherTypeConfig)
	copy(frame[14:30], controller[:])
	copy(frame[30:38], syncPattern[:])
	frame[38] = byte(typ)
	frame[39] = sequence
	copy(frame[configHeaderLen:], payload)
	return frame, nil
}

// DecodeConfigFrame, bir yapılandırma çerçevesini çözer. Sabit başlıktan kısa
// veriler ErrTooShort, senkron deseni eşleşmeyenler ErrBadSync ile reddedilir.
// Dönen Payload, girdi dilimine işaret eder; kopyalanmaz.
func DecodeConfigFrame(data []byte) (*ConfigFrame, error) {
	if len(data) < configHeaderLen {
		return nil, fmt.Errorf("%w: %d byte (en az %d gerekli)", ErrTooShort, len(data), configHeaderLen)
	}
	if binary.BigEndian.Uint16(data[12:14]) != EtherTypeConfig {
		return nil, fmt.Errorf("%w: EtherType 0x%04x", ErrBadSync, binary.BigEndian.Uint16(data[12:14]))
	}
	if !bytes.Equal(data[30:38], syncPattern[:]) {
		return nil, fmt.Errorf("%w: % x", ErrBadSync, data[30:38])
	}

	frame := &ConfigFrame{
		Type:     CfgType(data[38]),
		Sequence: data[39],
		Payload:  data[configHeaderLen:],
	}
	copy(frame.Controller[:], data[14:30])
	return frame, nil
}

// ─── Görüntü Yükleri ────────────────────────────────────────────────────────────

// buildRefreshPayload, görüntü tetik çerçevesinin (0x01) yükünü oluşturur.
// Tamponlanan satır verilerini panellere yansıtır; son satırdan kısa bir
// bekleme sonra gönderilmelidir.
//
// Yük Formatı (98 byte):
//
//	[0]     0x07 (sabit)
//	[1-21]  dolgu (sıfır)
//	[22]    genel parlaklık (0-255, doğrusal)
//	[23]    0x05 (sabit)
//	[24]    0x00 (sabit)
//	[25-27] R, G, B parlaklık (doğrusal)
//	[28+]   dolgu (sıfır)
func buildRefreshPayload(brightness uint8, rgb [3]uint8) []byte {
	payload := make([]byte, 98)
	payload[0] = 0x07
	payload[22] = brightness
	payload[23] = 0x05
	payload[25] = rgb[0]
	payload[26] = rgb[1]
	payload[27] = rgb[2]
	return payload
}

// buildBrightnessPayload, parlaklık kontrol çerçevesinin (0x0A) yükünü
// oluşturur. Parlaklık tetik çerçevesinde de taşınabildiği için isteğe
// bağlıdır.
//
// Yük Formatı (63 byte):
//
//	[0-2] R, G, B parlaklık
//	[3]   0xFF (sabit)
//	[4+]  dolgu (sıfır)
func buildBrightnessPayload(rgb [3]uint8) []byte {
	payload := make([]byte, 63)
	payload[0] = rgb[0]
	payload[1] = rgb[1]
	payload[2] = rgb[2]
	payload[3] = 0xFF
	return payload
}

// ─── Yapılandırma Yükleri ───────────────────────────────────────────────────────

// buildControlAreaPayload, CARDAREA (0x02) yükünü oluşturur.
//
// Yük Formatı (12 byte):
//
//	[0]    ayrılmış (sıfır)
//	[1]    kart indeksi (0-255)
//	[2-11] 10 byte kontrol alanı verisi
func buildControlAreaPayload(cardIndex uint8, areaData []byte) []byte {
	payload := make([]byte, 12)
	payload[1] = cardIndex
	if len(areaData) > 10 {
		areaData = areaData[:10]
	}
	copy(payload[2:], areaData)
	return payload
}

// buildRoutingPayload, BASICROUTE (0x03) yükünü oluşturur. En fazla 8 port
// (J1-J8), port başına 3 byte; tablo 25 byte'a doldurulur.
//
// Yük Formatı (25 byte):
//
//	[0]   ayrılmış (sıfır)
//	[1+]  her port için [indeks][flagsHi][flagsLo]
func buildRoutingPayload(routes []PortRoute) []byte {
	payload := make([]byte, 25)
	if len(routes) > 8 {
		routes = routes[:8]
	}
	for i, r := range routes {
		payload[1+i*3] = r.Index & 0x07
		payload[2+i*3] = r.FlagsHi
		payload[3+i*3] = r.FlagsLo
	}
	return payload
}

// buildBasicParamPayload, BASICPARAM (0x05) yükünü oluşturur.
//
// Yük Formatı (32 byte):
//
//	[0-1] toplam genişlik (2B LE)
//	[2-3] toplam yükseklik (2B LE)
//	[4]   renk derinliği (tam pakette 0x2A ofsetine düşer)
//	[5]   ayrılmış
//	[6]   modül genişliği
//	[7]   modül yüksekliği
//	[8]   tarama modu
//	[9+]  ayrılmış (sıfır)
func buildBasicParamPayload(grid PanelGrid, depth ColorDepth) []byte {
	payload := make([]byte, 32)
	binary.LittleEndian.PutUint16(payload[0:2], uint16(grid.CanvasWidth()))
	binary.LittleEndian.PutUint16(payload[2:4], uint16(grid.CanvasHeight()))
	payload[4] = byte(depth)
	payload[6] = byte(grid.PanelWidth)
	payload[7] = byte(grid.PanelHeight)
	payload[8] = byte(grid.ScanMode)
	return payload
}

// buildVolatilePayload, uçucu EEPROM yazımının (0x1B) yükünü oluşturur.
// İçerik 16 byte sıfırdır; kayıt bayrakları yalnızca kalıcı adıma (0x2B)
// aittir.
func buildVolatilePayload() []byte {
	return make([]byte, 16)
}

// buildSavePayload, EEPROM kalıcı kayıt (0x2B) yükünü oluşturur.
//
// Yük Formatı (16 byte):
//
//	[0]  0x0F tam kayıt bayrağı
//	[1]  0x01 gönderim bayrağı
//	[2+] ayrılmış (sıfır)
func buildSavePayload() []byte {
	payload := make([]byte, 16)
	payload[0] = 0x0F
	payload[1] = 0x01
	return payload
}

// buildDiscoveryPayload, keşif isteği (0x07) yükünü oluşturur.
// İçerik 64 byte sıfırdır; alıcılar yalnızca tipe tepki verir.
func buildDiscoveryPayload() []byte {
	return make([]byte, 64)
}

// parseDiscoveryResponse, bir keşif yanıtı (0x08) çerçevesinden alıcının
// 16 byte'lık adresini çıkarır. Adres yükün başında taşınır; yük boş veya
// sıfırsa başlıktaki denetleyici adresi kullanılır. Yanıt yükünün kalan
// byte'ları henüz çözümlenmemiştir ve yok sayılır.
func parseDiscoveryResponse(frame *ConfigFrame) (ControllerAddress, bool) {
	if frame == nil || frame.Type != CfgDiscoveryResponse {
		return ControllerAddress{}, false
	}
	var addr ControllerAddress
	if len(frame.Payload) >= 16 {
		copy(addr[:], frame.Payload[:16])
	}
	if addr.IsBroadcast() {
		addr = frame.Controller
	}
	return addr, true
}
