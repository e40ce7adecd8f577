package colorlight

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"sort"
)

// ─── Yapılandırma Dosyası Kodeki ────────────────────────────────────────────────
//
// Bu dosya, LEDVISION'ın üretip okuduğu .rcvp (düz) ve .rcvbp (zlib
// sıkıştırmalı) panel yapılandırma dosyalarını kodlar ve çözer. Donanım
// ayarları böylece orijinal Windows aracı olmadan üretilip saklanabilir.
//
// Dosya Düzeni:
//
//	[0x00-0x03] İmza            "RCVP" (düz) veya "RCVB" (sıkıştırmalı)
//	[0x04-0x07] Sürüm           (4B LE)
//	[0x08-0x09] Modül genişliği (2B LE), gövdedeki alanın KOPYASI
//	[0x0A]      Tarama sayısı, gövdedeki alanın KOPYASI
//	[0x0B]      Tarama tipi ayracı
//	[0x0C-0x0F] ayrılmış
//	[0x10-0x13] Bayraklar (4B LE; 0x0004 biti: gövde zlib sıkıştırmalı)
//	[0x14+]     Düz gövde (bayrak biti temizse)
//	[0x20+]     zlib gövdesi (bayrak biti kuruluysa; 0x14-0x1F ayrılmış)
//
// Gövde, sabit byte ofsetleriyle adreslenen büyük ve düz bir yapıdır. Tüm
// çok byte'lı sayısal alanlar little-endian'dır. Belgelenmemiş aralıklar
// yorumlanmaz; yükle-kaydet döngüsünde byte'ı byte'ına korunur.
//
// Başlıktaki modül genişliği ve tarama sayısı, gövdedeki karşılıklarının
// kopyalarıdır. Kayıtta iki kopya DAİMA aynı yazılır; sapma bir değişmez
// ihlalidir, tercih meselesi değildir.

const (
	// fileVersion, bu kodekin yazdığı dosya yapısı sürümüdür.
	fileVersion uint32 = 2

	// flagCompressed, bayraklar alanındaki zlib sıkıştırma bitidir.
	flagCompressed uint32 = 0x0004

	// plainBodyOffset ve compressedBodyOffset, gövdenin dosya içindeki
	// başlangıç konumlarıdır.
	plainBodyOffset      = 0x14
	compressedBodyOffset = 0x20

	// templateBodySize, şablon üretiminde kullanılan gövde boyutudur.
	// En yüksek belgelenmiş ofseti (0xE99E) kapsar.
	templateBodySize = 0xEA00
)

// sigPlain ve sigCompressed, iki dosya türevinin 4 byte'lık imzalarıdır.
var (
	sigPlain      = [4]byte{'R', 'C', 'V', 'P'}
	sigCompressed = [4]byte{'R', 'C', 'V', 'B'}
)

// ─── Başlık ─────────────────────────────────────────────────────────────────────

// Header, yapılandırma dosyasının sabit boyutlu öncü yapısıdır.
type Header struct {
	Signature   [4]byte
	Version     uint32
	ModuleWidth uint16 // Gövdedeki module_width alanının kopyası
	ScanNumber  uint8  // Gövdedeki scan_mode alanının kopyası
	ScanType    uint8
	Flags       uint32
}

// Compressed, gövdenin zlib sıkıştırmalı olup olmadığını döner.
func (h Header) Compressed() bool {
	return h.Flags&flagCompressed != 0
}

// ParseHeader, dosyanın öncü yapısını çözer. İmza bilinen sabitlerle
// eşleşmezse ErrBadMagic döner.
func ParseHeader(data []byte) (Header, error) {
	if len(data) < plainBodyOffset {
		return Header{}, fmt.Errorf("%w: %d byte (başlık %d byte)", ErrTooShort, len(data), plainBodyOffset)
	}

	var h Header
	copy(h.Signature[:], data[0:4])
	if h.Signature != sigPlain && h.Signature != sigCompressed {
		return Header{}, fmt.Errorf("%w: % x", ErrBadMagic, data[0:4])
	}

	h.Version = binary.LittleEndian.Uint32(data[4:8])
	h.ModuleWidth = binary.LittleEndian.Uint16(data[8:10])
	h.ScanNumber = data[10]
	h.ScanType = data[11]
	h.Flags = binary.LittleEndian.Uint32(data[16:20])
	return h, nil
}

// ─── Alan Tablosu ───────────────────────────────────────────────────────────────

// fieldKind, bir alanın gövdede nasıl kodlandığını belirtir.
type fieldKind int

const (
	fieldU8 fieldKind = iota
	fieldU16
	fieldF32

	// fieldPercentByte, yüzde olarak sunulan tek byte'lık alandır.
	// Saklanan değer round(255 * yüzde / 100) formülüyle ölçeklenir.
	fieldPercentByte
)

// size, alanın gövdede kapladığı byte sayısını döner.
func (k fieldKind) size() int {
	switch k {
	case fieldU16:
		return 2
	case fieldF32:
		return 4
	default:
		return 1
	}
}

// headerMirror, bir gövde alanının başlıkta tutulan kopyasını tanımlar.
type headerMirror int

const (
	mirrorNone headerMirror = iota
	mirrorModuleWidth
	mirrorScanNumber
)

// fieldSpec, anlamsal alan adını (ofset, genişlik, kodek) üçlüsüne bağlar.
type fieldSpec struct {
	offset int
	kind   fieldKind
	mirror headerMirror
}

// fieldTable, gövdedeki belgelenmiş tüm alanların statik tablosudur.
// Dinamik alan erişimi yerine derleme zamanı tablosu kullanılır; tablo
// init() içinde şablon gövde boyutuna karşı bir kez doğrulanır.
var fieldTable = map[string]fieldSpec{
	"module_width":         {offset: 0x04, kind: fieldU8, mirror: mirrorModuleWidth},
	"module_height":        {offset: 0x05, kind: fieldU8},
	"data_polarity":        {offset: 0x1C, kind: fieldU8},
	"gamma":                {offset: 0x20, kind: fieldF32},
	"scan_mode":            {offset: 0x24, kind: fieldU8, mirror: mirrorScanNumber},
	"white_balance_r":      {offset: 0x2C, kind: fieldPercentByte},
	"white_balance_g":      {offset: 0x2D, kind: fieldPercentByte},
	"white_balance_b":      {offset: 0x2E, kind: fieldPercentByte},
	"color_exchange_r":     {offset: 0x30, kind: fieldU8},
	"color_exchange_g":     {offset: 0x31, kind: fieldU8},
	"color_exchange_b":     {offset: 0x32, kind: fieldU8},
	"cascade_direction":    {offset: 0x40, kind: fieldU8},
	"min_oe_ns":            {offset: 0xB2, kind: fieldF32},
	"cabinet_width":        {offset: 0xC4, kind: fieldU16},
	"cabinet_height":       {offset: 0xC6, kind: fieldU16},
	"data_groups":          {offset: 0x18E, kind: fieldU16},
	"grayscale_max":        {offset: 0x1E9, kind: fieldU16},
	"grayscale_refinement": {offset: 0x25E, kind: fieldU8},
	"brightness_level":     {offset: 0xE983, kind: fieldU8},
	"decoder_ic":           {offset: 0xE986, kind: fieldU8},
	"brightness_percent":   {offset: 0xE98D, kind: fieldU8},
	"grayscale_mode":       {offset: 0xE99E, kind: fieldU8},
}

func init() {
	for name, spec := range fieldTable {
		if spec.offset < 0 || spec.offset+spec.kind.size() > templateBodySize {
			panic(fmt.Sprintf("colorlight: alan tablosu tutarsız: %s şablon gövdesine sığmıyor", name))
		}
	}
}

// FieldNames, belgelenmiş tüm alan adlarını alfabetik sırada döner.
func FieldNames() []string {
	names := make([]string, 0, len(fieldTable))
	for name := range fieldTable {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ─── Belge ──────────────────────────────────────────────────────────────────────

// Document, bir yapılandırma dosyasının bellek içi görünümüdür. Bir dosya
// yüklenerek ya da BuildTemplate ile sıfırdan sentezlenerek oluşturulur;
// alan ayarlayıcılarla değiştirilir ve Serialize ile byte'lara yazılır.
type Document struct {
	header Header
	body   []byte

	// rawHeader, dosyadan yüklenen başlık bölgesinin ham kopyasıdır
	// (düz türevde 0x14, sıkıştırmalıda 0x20 byte). Belgelenmemiş başlık
	// byte'ları kayıtta buradan geri yazılır; şablonlarda nil kalır.
	rawHeader []byte
}

// Header, belgenin öncü yapısının kopyasını döner.
func (d *Document) Header() Header { return d.header }

// BodyLen, gövdenin byte uzunluğunu döner.
func (d *Document) BodyLen() int { return len(d.body) }

// Load, bir .rcvp/.rcvbp dosyasını çözer. Bayraklardaki sıkıştırma biti
// kuruluysa gövde önce zlib ile açılır; bozuk sıkıştırılmış veri
// ErrDecompress ile reddedilir.
func Load(data []byte) (*Document, error) {
	h, err := ParseHeader(data)
	if err != nil {
		return nil, err
	}

	headerLen := plainBodyOffset
	if h.Compressed() {
		headerLen = compressedBodyOffset
	}
	var rawHeader []byte
	if len(data) >= headerLen {
		rawHeader = make([]byte, headerLen)
		copy(rawHeader, data[:headerLen])
	}

	var body []byte
	if h.Compressed() {
		if len(data) < compressedBodyOffset {
			return nil, fmt.Errorf("%w: sıkıştırılmış gövde eksik", ErrTooShort)
		}
		zr, err := zlib.NewReader(bytes.NewReader(data[compressedBodyOffset:]))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDecompress, err)
		}
		body, err = io.ReadAll(zr)
		zr.Close()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDecompress, err)
		}
	} else {
		body = make([]byte, len(data)-plainBodyOffset)
		copy(body, data[plainBodyOffset:])
	}

	return &Document{header: h, body: body, rawHeader: rawHeader}, nil
}

// GetField, belgelenmiş bir alanın çözülmüş değerini döner. Yüzde ölçekli
// alanlar yüzde, gama IEEE 754 kayan nokta, kalan alanlar tamsayı değer
// olarak sunulur.
func (d *Document) GetField(name string) (float64, error) {
	spec, ok := fieldTable[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	if spec.offset+spec.kind.size() > len(d.body) {
		return 0, fmt.Errorf("%w: %s (ofset 0x%X, gövde %d byte)",
			ErrFieldOutOfRange, name, spec.offset, len(d.body))
	}

	switch spec.kind {
	case fieldU8:
		return float64(d.body[spec.offset]), nil
	case fieldU16:
		return float64(binary.LittleEndian.Uint16(d.body[spec.offset:])), nil
	case fieldF32:
		bits := binary.LittleEndian.Uint32(d.body[spec.offset:])
		return float64(math.Float32frombits(bits)), nil
	case fieldPercentByte:
		stored := float64(d.body[spec.offset])
		return math.Round(stored * 100 / 255), nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
}

// SetField, belgelenmiş bir alanın değerini yazar. Alanın başlıkta kopyası
// varsa kopya da aynı çağrıda güncellenir; bu zorunlu bir değişmezdir,
// isteğe bağlı bir kolaylık değil.
func (d *Document) SetField(name string, value float64) error {
	spec, ok := fieldTable[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	if spec.offset+spec.kind.size() > len(d.body) {
		return fmt.Errorf("%w: %s (ofset 0x%X, gövde %d byte)",
			ErrFieldOutOfRange, name, spec.offset, len(d.body))
	}

	switch spec.kind {
	case fieldU8:
		d.body[spec.offset] = uint8(value)
	case fieldU16:
		binary.LittleEndian.PutUint16(d.body[spec.offset:], uint16(value))
	case fieldF32:
		binary.LittleEndian.PutUint32(d.body[spec.offset:], math.Float32bits(float32(value)))
	case fieldPercentByte:
		d.body[spec.offset] = uint8(math.Round(255 * value / 100))
	}

	switch spec.mirror {
	case mirrorModuleWidth:
		d.header.ModuleWidth = uint16(value)
	case mirrorScanNumber:
		d.header.ScanNumber = uint8(value)
	}
	return nil
}

// syncMirrors, başlıktaki kopya alanları gövdedeki asıllarından tazeler.
// Serialize her zaman bu adımı uygular; iki kopya diske asla farklı yazılmaz.
func (d *Document) syncMirrors() {
	for _, spec := range fieldTable {
		if spec.offset+spec.kind.size() > len(d.body) {
			continue
		}
		switch spec.mirror {
		case mirrorModuleWidth:
			d.header.ModuleWidth = uint16(d.body[spec.offset])
		case mirrorScanNumber:
			d.header.ScanNumber = d.body[spec.offset]
		}
	}
}

// Serialize, belgeyi dosya byte'larına yazar. compressed true ise gövde zlib
// ile sıkıştırılır ve sıkıştırmalı türevin başlığı kullanılır. Hiçbir alan
// değiştirilmemişse yükle-kaydet döngüsü ayrılmış byte'ları aynen korur.
func (d *Document) Serialize(compressed bool) ([]byte, error) {
	d.syncMirrors()

	sig := sigPlain
	flags := d.header.Flags &^ flagCompressed
	if compressed {
		sig = sigCompressed
		flags |= flagCompressed
	}

	version := d.header.Version
	if version == 0 {
		version = fileVersion
	}

	bodyOffset := plainBodyOffset
	if compressed {
		bodyOffset = compressedBodyOffset
	}

	var buf bytes.Buffer
	head := make([]byte, bodyOffset)
	// Ayrılmış başlık byte'ları (0x0C-0x0F ve sıkıştırmalı türevde
	// 0x14-0x1F) yüklenen ham kopyadan geri yazılır; belgelenmiş alanlar
	// aşağıda üzerlerine yazar.
	copy(head, d.rawHeader)
	copy(head[0:4], sig[:])
	binary.LittleEndian.PutUint32(head[4:8], version)
	binary.LittleEndian.PutUint16(head[8:10], d.header.ModuleWidth)
	head[10] = d.header.ScanNumber
	head[11] = d.header.ScanType
	binary.LittleEndian.PutUint32(head[16:20], flags)
	buf.Write(head)

	if compressed {
		zw := zlib.NewWriter(&buf)
		if _, err := zw.Write(d.body); err != nil {
			zw.Close()
			return nil, fmt.Errorf("gövde sıkıştırılamadı: %w", err)
		}
		if err := zw.Close(); err != nil {
			return nil, fmt.Errorf("gövde sıkıştırılamadı: %w", err)
		}
	} else {
		buf.Write(d.body)
	}

	return buf.Bytes(), nil
}

// ─── Şablon Sentezi ─────────────────────────────────────────────────────────────

// TemplateOptions, dosyasız şablon üretiminin girdileridir. Sıfır değerler
// makul varsayılanlarla doldurulur.
type TemplateOptions struct {
	// Grid, panel geometrisi ve tarama/zincir ayarlarıdır.
	Grid PanelGrid

	// Gamma, gama düzeltme katsayısıdır (0 → 2.2).
	Gamma float64

	// WhiteBalance, R/G/B beyaz dengesi yüzdeleridir (0 → 100).
	WhiteBalance [3]int

	// BrightnessPercent, parlaklık yüzdesidir (0 → 100).
	BrightnessPercent int

	// DecoderIC, satır çözücü entegre kimliğidir.
	DecoderIC int
}

// templateConstants, referans dökümünde sabit gözlenen ve hiçbir alana
// bağlanmamış byte'lardır. Şablon bu değerlerle başlar; bilinen bir sabit
// varken sıfırla doldurulmuş tahmin kullanılmaz.
var templateConstants = []struct {
	offset int
	value  byte
}{
	{0x00, 0x02}, // yapı sürümü
	{0x06, 0x08}, // veri grubu sayısı bölgesi
	{0x1E9, 0x00},
	{0x1EA, 0x10}, // grayscale_max varsayılanı 4096'nın yüksek byte'ı
	{0xE99E, 0x07}, // grayscale_mode: Normal
}

// BuildTemplate, yalnızca panel/geometri/görüntü seçeneklerinden geçerli bir
// asgari belge sentezler; dosya gerekmez. options kapsamındaki alanlar
// doldurulur, belgelenmemiş byte'lar gözlemlenen sabit değerlerinde bırakılır.
func BuildTemplate(opts TemplateOptions) (*Document, error) {
	if err := opts.Grid.Validate(); err != nil {
		return nil, err
	}

	doc := &Document{
		header: Header{
			Signature: sigPlain,
			Version:   fileVersion,
			ScanType:  0x01,
		},
		body: make([]byte, templateBodySize),
	}

	for _, c := range templateConstants {
		doc.body[c.offset] = c.value
	}

	gamma := opts.Gamma
	if gamma == 0 {
		gamma = 2.2
	}
	wb := opts.WhiteBalance
	for i := range wb {
		if wb[i] == 0 {
			wb[i] = 100
		}
	}
	brightness := opts.BrightnessPercent
	if brightness == 0 {
		brightness = 100
	}

	exchange, err := opts.Grid.ColorOrder().Offsets()
	if err != nil {
		return nil, err
	}

	fields := map[string]float64{
		"module_width":       float64(opts.Grid.PanelWidth),
		"module_height":      float64(opts.Grid.PanelHeight),
		"scan_mode":          float64(opts.Grid.ScanMode),
		"cascade_direction":  float64(opts.Grid.Cascade),
		"cabinet_width":      float64(opts.Grid.CanvasWidth()),
		"cabinet_height":     float64(opts.Grid.CanvasHeight()),
		"data_groups":        float64(opts.Grid.PanelHeight / opts.Grid.ScanMode),
		"gamma":              gamma,
		"white_balance_r":    float64(wb[0]),
		"white_balance_g":    float64(wb[1]),
		"white_balance_b":    float64(wb[2]),
		"color_exchange_r":   float64(exchange[0]),
		"color_exchange_g":   float64(exchange[1]),
		"color_exchange_b":   float64(exchange[2]),
		"brightness_percent": float64(brightness),
		"brightness_level":   16,
		"grayscale_max":      4096,
		"decoder_ic":         float64(opts.DecoderIC),
	}
	for name, value := range fields {
		if err := doc.SetField(name, value); err != nil {
			return nil, err
		}
	}

	return doc, nil
}

// ─── Izgara Köprüsü ─────────────────────────────────────────────────────────────

// GridFromDocument, yüklenmiş bir yapılandırma belgesinden PanelGrid türetir.
// Kabin boyutları modül boyutlarına tam bölünmüyorsa hata döner.
func GridFromDocument(doc *Document) (PanelGrid, error) {
	get := func(name string) (int, error) {
		v, err := doc.GetField(name)
		return int(v), err
	}

	moduleW, err := get("module_width")
	if err != nil {
		return PanelGrid{}, err
	}
	moduleH, err := get("module_height")
	if err != nil {
		return PanelGrid{}, err
	}
	cabinetW, err := get("cabinet_width")
	if err != nil {
		return PanelGrid{}, err
	}
	cabinetH, err := get("cabinet_height")
	if err != nil {
		return PanelGrid{}, err
	}
	scan, err := get("scan_mode")
	if err != nil {
		return PanelGrid{}, err
	}
	cascade, err := get("cascade_direction")
	if err != nil {
		return PanelGrid{}, err
	}

	if moduleW <= 0 || moduleH <= 0 {
		return PanelGrid{}, fmt.Errorf("%w: modül boyutu %dx%d", ErrInvalidGrid, moduleW, moduleH)
	}
	if cabinetW%moduleW != 0 || cabinetH%moduleH != 0 {
		return PanelGrid{}, fmt.Errorf("%w: kabin %dx%d, modül %dx%d ile bölünemiyor",
			ErrInvalidGrid, cabinetW, cabinetH, moduleW, moduleH)
	}

	var ex [3]int
	for i, name := range []string{"color_exchange_r", "color_exchange_g", "color_exchange_b"} {
		v, err := get(name)
		if err != nil {
			return PanelGrid{}, err
		}
		ex[i] = v
	}

	grid := PanelGrid{
		PanelsX:     cabinetW / moduleW,
		PanelsY:     cabinetH / moduleH,
		PanelWidth:  moduleW,
		PanelHeight: moduleH,
		ScanMode:    scan,
		Cascade:     CascadeDirection(cascade),
		Order:       orderFromExchange(ex),
	}
	return grid, grid.Validate()
}

// orderFromExchange, kanal değişim üçlüsünden bilinen renk sırasını bulur.
// Eşleşme yoksa BGR varsayılır.
func orderFromExchange(ex [3]int) ColorOrder {
	for order, offsets := range colorOrders {
		if offsets == ex {
			return order
		}
	}
	return OrderBGR
}
