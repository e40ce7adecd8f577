package colorlight

import (
	"fmt"
	"time"
)

// ─── Protokol Sabitleri ─────────────────────────────────────────────────────────

const (
	// EtherTypeConfig, yapılandırma çerçevelerinin EtherType değeridir.
	// Görüntü çerçevelerinde EtherType alanı yoktur; tip byte'ı 0x0C
	// ofsetinde doğrudan bulunur.
	EtherTypeConfig uint16 = 0x0880

	// MaxPixelsPerRun, tek bir piksel veri çerçevesinde taşınabilecek
	// maksimum piksel sayısıdır. 497 piksel × 3 byte + başlık, standart
	// Ethernet MTU sınırının içinde kalır.
	MaxPixelsPerRun = 497

	// displayHeaderLen, görüntü çerçevesi başlık uzunluğudur.
	// Format: [6B dst MAC][6B src MAC][1B tip]
	displayHeaderLen = 13

	// configHeaderLen, yapılandırma çerçevesi başlık uzunluğudur.
	// Format: [6B dst][6B src][2B EtherType][16B denetleyici adresi]
	// [8B senkron deseni][1B tip][1B sıra]
	configHeaderLen = 40

	// pixelRunHeaderLen, piksel veri yükünün başlık uzunluğudur.
	// Format: [2B satır BE][2B ofset BE][2B sayı BE][0x08][0x88]
	pixelRunHeaderLen = 8

	// DefaultInterFrameDelay, ardışık yapılandırma çerçeveleri arasındaki
	// varsayılan bekleme süresidir. Alıcı onay göndermez; bu bekleme,
	// FPGA'nın bir çerçeveyi işlemesi için zaman tanır.
	DefaultInterFrameDelay = 10 * time.Millisecond

	// DefaultTriggerDelay, son piksel satırı ile görüntü tetik çerçevesi
	// arasındaki varsayılan beklemedir.
	DefaultTriggerDelay = 5 * time.Millisecond

	// DefaultSaveDelay, uçucu parametre yazımı ile kalıcı flash kaydı
	// arasındaki varsayılan beklemedir.
	DefaultSaveDelay = 50 * time.Millisecond
)

// dstMAC ve srcMAC, protokole gömülü sabit adreslerdir. Gerçek donanım
// adresleri değildir; alıcı FPGA bu değerlerle eşleşen çerçeveleri kabul eder.
var (
	dstMAC = [6]byte{0x11, 0x22, 0x33, 0x44, 0x55, 0x66}
	srcMAC = [6]byte{0x22, 0x22, 0x33, 0x44, 0x55, 0x66}
)

// syncPattern, yapılandırma çerçevelerinde 0x1E-0x25 ofsetinde bulunan sabit
// senkron desenidir. Alıcı FPGA paket tipini bu deseni arayarak bulur.
var syncPattern = [8]byte{0x55, 0x66, 0x11, 0x22, 0x33, 0x44, 0x55, 0x66}

// ─── Görüntü Çerçeve Tipleri ────────────────────────────────────────────────────

// DisplayType, görüntü çerçevelerindeki (EtherType'sız kısa format) tip
// byte'ını temsil eder. Tip, çerçevenin 0x0C ofsetinde bulunur.
type DisplayType uint8

const (
	// DisplayRefresh, tamponlanan görüntüyü panellere yansıtan tetik
	// çerçevesidir. Tüm satır verileri gönderildikten sonra yollanır.
	DisplayRefresh DisplayType = 0x01

	// DisplayBrightness, parlaklık kontrol çerçevesidir. Parlaklık tetik
	// çerçevesi içinde de taşınabildiği için isteğe bağlıdır.
	DisplayBrightness DisplayType = 0x0A

	// DisplayPixelData, bir satırlık (veya satır parçası) BGR piksel verisi
	// taşıyan çerçevedir.
	DisplayPixelData DisplayType = 0x55
)

// String, DisplayType'ın okunabilir adını döner.
func (t DisplayType) String() string {
	switch t {
	case DisplayRefresh:
		return "Refresh"
	case DisplayBrightness:
		return "Brightness"
	case DisplayPixelData:
		return "PixelData"
	default:
		return fmt.Sprintf("Unknown(0x%02x)", uint8(t))
	}
}

// ─── Yapılandırma Çerçeve Tipleri ───────────────────────────────────────────────

// CfgType, yapılandırma çerçevelerindeki (EtherType 0x0880) paket tipini
// temsil eder. Tip byte'ı senkron deseninden hemen sonra, 0x26 ofsetindedir.
type CfgType uint8

const (
	// CfgControlArea, kontrol alanı tanımıdır (CARDAREA, kart başına 10 byte).
	CfgControlArea CfgType = 0x02

	// CfgRouting, J1-J8 çıkış portu yönlendirme tablosudur (BASICROUTE).
	CfgRouting CfgType = 0x03

	// CfgBasicParam, boyut ve tarama parametreleridir (BASICPARAM).
	CfgBasicParam CfgType = 0x05

	// CfgDiscoveryRequest, alıcı kart keşif isteğidir. Yayın (broadcast)
	// denetleyici adresiyle gönderilir.
	CfgDiscoveryRequest CfgType = 0x07

	// CfgDiscoveryResponse, keşif isteğine alıcının verdiği yanıttır.
	CfgDiscoveryResponse CfgType = 0x08

	// CfgBrightness, yapılandırma katmanındaki parlaklık çerçevesidir.
	// Toplam uzunluğu 93 byte olarak sabittir.
	CfgBrightness CfgType = 0x0A

	// CfgAntiRouteSave, ters yönlendirme / kaydetme komutudur.
	CfgAntiRouteSave CfgType = 0x1A

	// CfgEEPROMVolatile, EEPROM parametrelerini yalnızca RAM'e yazar.
	// Güç kesildiğinde bu ayarlar KAYBOLUR.
	CfgEEPROMVolatile CfgType = 0x1B

	// CfgChipRealtime, sürücü entegresi gerçek zamanlı parametreleridir.
	CfgChipRealtime CfgType = 0x1C

	// CfgVoidLine, boş satır bilgisidir.
	CfgVoidLine CfgType = 0x1F

	// CfgEEPROMPersist, parametreleri alıcının flash belleğine kalıcı
	// olarak yazar. Kalıcılık YALNIZCA bu adımla sağlanır.
	CfgEEPROMPersist CfgType = 0x2B

	// CfgAntiPixel, ters piksel sıralama tablosudur.
	CfgAntiPixel CfgType = 0x32

	// CfgTAntiRoute, T tipi ters yönlendirme tablosudur.
	CfgTAntiRoute CfgType = 0x37

	// CfgDataRemap, veri yeniden eşleme tablosudur.
	CfgDataRemap CfgType = 0x41

	// CfgGammaSeparate, kanal başına ayrı gama tablosudur.
	CfgGammaSeparate CfgType = 0x73

	// CfgGamma, gama tablosudur (GAMATABLE).
	CfgGamma CfgType = 0x76

	// CfgGammaGray, gama kalibrasyon gri değeridir.
	CfgGammaGray CfgType = 0x7B

	// CfgGammaDelta, gama kalibrasyon delta değeridir.
	CfgGammaDelta CfgType = 0x7F

	// CfgAntiScan, ters tarama parametreleridir.
	CfgAntiScan CfgType = 0x83

	// CfgGammaNew, yeni nesil gama kalibrasyonudur.
	CfgGammaNew CfgType = 0x87
)

// String, CfgType'ın okunabilir adını döner.
func (t CfgType) String() string {
	switch t {
	case CfgControlArea:
		return "ControlArea"
	case CfgRouting:
		return "Routing"
	case CfgBasicParam:
		return "BasicParam"
	case CfgDiscoveryRequest:
		return "DiscoveryRequest"
	case CfgDiscoveryResponse:
		return "DiscoveryResponse"
	case CfgBrightness:
		return "Brightness"
	case CfgEEPROMVolatile:
		return "EEPROMVolatile"
	case CfgEEPROMPersist:
		return "EEPROMPersist"
	case CfgGamma:
		return "Gamma"
	case CfgDataRemap:
		return "DataRemap"
	case CfgVoidLine:
		return "VoidLine"
	default:
		return fmt.Sprintf("Unknown(0x%02x)", uint8(t))
	}
}

// ─── Renk Derinliği ─────────────────────────────────────────────────────────────

// ColorDepth, yapılandırma paketlerindeki renk derinliği değerini temsil eder.
type ColorDepth uint8

const (
	Color8Bit  ColorDepth = 0x00 // 8 bit / kanal
	Color10Bit ColorDepth = 0x02 // 10 bit / kanal
	Color12Bit ColorDepth = 0x04 // 12 bit / kanal
)

// ─── Denetleyici Adresi ─────────────────────────────────────────────────────────

// ControllerAddress, alıcı kartın 16 byte'lık kimliğidir. Tamamı sıfır olan
// adres geçerli ve anlamlıdır: tüm alıcılara yayın (broadcast) demektir,
// asla "ayarlanmamış" hatası olarak yorumlanmaz.
type ControllerAddress [16]byte

// BroadcastAddress, tüm alıcıları hedefleyen sıfır adrestir.
var BroadcastAddress ControllerAddress

// IsBroadcast, adresin yayın adresi olup olmadığını döner.
func (a ControllerAddress) IsBroadcast() bool {
	return a == BroadcastAddress
}

// String, adresin kısa onaltılık temsilini döner.
func (a ControllerAddress) String() string {
	if a.IsBroadcast() {
		return "broadcast"
	}
	return fmt.Sprintf("%x", a[:])
}

// ─── Zincirleme Yönü ────────────────────────────────────────────────────────────

// CascadeDirection, fiziksel panellerin kablolanma sırasını belirtir.
// Değerler .rcvp dosya formatındaki kodlamayla aynıdır.
type CascadeDirection uint8

const (
	CascadeRightToLeft CascadeDirection = 0 // Sağdan sola
	CascadeLeftToRight CascadeDirection = 1 // Soldan sağa
	CascadeTopToBottom CascadeDirection = 2 // Yukarıdan aşağıya
	CascadeBottomToTop CascadeDirection = 3 // Aşağıdan yukarıya
)

// String, zincirleme yönünün okunabilir adını döner.
func (c CascadeDirection) String() string {
	switch c {
	case CascadeRightToLeft:
		return "RightToLeft"
	case CascadeLeftToRight:
		return "LeftToRight"
	case CascadeTopToBottom:
		return "TopToBottom"
	case CascadeBottomToTop:
		return "BottomToTop"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(c))
	}
}

// vertical, zincirin panel sütunları boyunca (transpoze) ilerleyip
// ilerlemediğini döner.
func (c CascadeDirection) vertical() bool {
	return c == CascadeTopToBottom || c == CascadeBottomToTop
}

// ─── Renk Sırası ────────────────────────────────────────────────────────────────

// ColorOrder, panelin LED sürücü entegresine bağlı kanal sıralamasıdır.
// Renkler yanlış görünüyorsa (kırmızı/mavi yer değiştirmiş gibi) farklı bir
// sıra denenmelidir.
type ColorOrder string

const (
	OrderRGB ColorOrder = "RGB"
	OrderRBG ColorOrder = "RBG"
	OrderGRB ColorOrder = "GRB"
	OrderGBR ColorOrder = "GBR"
	OrderBRG ColorOrder = "BRG"
	OrderBGR ColorOrder = "BGR" // En yaygın panel sıralaması, varsayılan
)

// colorOrders, RGB girdi kanallarının çıkış konumlarını tanımlar:
// [R çıkış konumu, G çıkış konumu, B çıkış konumu]. Konum, kanalın sıra
// adındaki indeksidir; BGR çıkışında R son (2), B ilk (0) konumdadır.
var colorOrders = map[ColorOrder][3]int{
	OrderRGB: {0, 1, 2},
	OrderRBG: {0, 2, 1},
	OrderGRB: {1, 0, 2},
	OrderGBR: {2, 0, 1},
	OrderBRG: {1, 2, 0},
	OrderBGR: {2, 1, 0},
}

// Offsets, her girdi kanalının çıkış konumunu döner. Bilinmeyen sıra için
// ErrInvalidColorOrder döner.
func (o ColorOrder) Offsets() ([3]int, error) {
	m, ok := colorOrders[o]
	if !ok {
		return [3]int{}, fmt.Errorf("%w: %q", ErrInvalidColorOrder, string(o))
	}
	return m, nil
}

// ─── Panel Izgarası ─────────────────────────────────────────────────────────────

// PanelGrid, fiziksel LED dizisinin tanımıdır. Bir oturum boyunca
// değişmezdir; PixelMapper ve Engine tarafından ödünç alınır.
type PanelGrid struct {
	// PanelsX ve PanelsY, yatay ve dikey panel sayısıdır.
	PanelsX int
	PanelsY int

	// PanelWidth ve PanelHeight, tek bir panelin piksel boyutlarıdır.
	PanelWidth  int
	PanelHeight int

	// ScanMode, panelin çoklama oranıdır (4, 8, 16 veya 32). Panelin
	// satırları ScanMode adet serpiştirilmiş gruba bölünür.
	ScanMode int

	// Cascade, panellerin kablolanma yönüdür.
	Cascade CascadeDirection

	// Order, panelin renk kanalı sıralamasıdır. Boş bırakılırsa BGR
	// varsayılır.
	Order ColorOrder
}

// CanvasWidth, toplam adreslenebilir tuval genişliğini döner.
func (g PanelGrid) CanvasWidth() int { return g.PanelsX * g.PanelWidth }

// CanvasHeight, toplam adreslenebilir tuval yüksekliğini döner.
func (g PanelGrid) CanvasHeight() int { return g.PanelsY * g.PanelHeight }

// ColorOrder, yapılandırılmış renk sırasını döner; boşsa BGR.
func (g PanelGrid) ColorOrder() ColorOrder {
	if g.Order == "" {
		return OrderBGR
	}
	return g.Order
}

// Validate, ızgara tanımının tutarlılığını denetler.
func (g PanelGrid) Validate() error {
	if g.PanelsX <= 0 || g.PanelsY <= 0 || g.PanelWidth <= 0 || g.PanelHeight <= 0 {
		return fmt.Errorf("%w: panel boyutları pozitif olmalı (%dx%d panel, %dx%d piksel)",
			ErrInvalidGrid, g.PanelsX, g.PanelsY, g.PanelWidth, g.PanelHeight)
	}
	switch g.ScanMode {
	case 4, 8, 16, 32:
	default:
		return fmt.Errorf("%w: tarama modu %d (4, 8, 16 veya 32 olmalı)", ErrInvalidGrid, g.ScanMode)
	}
	if g.Cascade > CascadeBottomToTop {
		return fmt.Errorf("%w: zincirleme yönü %d", ErrInvalidGrid, g.Cascade)
	}
	if _, err := g.ColorOrder().Offsets(); err != nil {
		return err
	}
	return nil
}

// ─── Piksel Tamponu ─────────────────────────────────────────────────────────────

// PixelBuffer, satır öncelikli (row-major) ham RGB piksel tamponudur.
// Pix uzunluğu her zaman Width*Height*3 byte'tır.
type PixelBuffer struct {
	Width  int
	Height int
	Pix    []byte
}

// NewPixelBuffer, siyaha sıfırlanmış bir tampon oluşturur.
func NewPixelBuffer(width, height int) *PixelBuffer {
	return &PixelBuffer{
		Width:  width,
		Height: height,
		Pix:    make([]byte, width*height*3),
	}
}

// SetPixel, (x, y) konumundaki pikselin RGB değerini yazar.
// Tampon dışındaki koordinatlar sessizce yok sayılır.
func (b *PixelBuffer) SetPixel(x, y int, r, g, bl uint8) {
	if x < 0 || x >= b.Width || y < 0 || y >= b.Height {
		return
	}
	i := (y*b.Width + x) * 3
	b.Pix[i] = r
	b.Pix[i+1] = g
	b.Pix[i+2] = bl
}

// Fill, tüm tamponu tek bir renge boyar.
func (b *PixelBuffer) Fill(r, g, bl uint8) {
	for i := 0; i < len(b.Pix); i += 3 {
		b.Pix[i] = r
		b.Pix[i+1] = g
		b.Pix[i+2] = bl
	}
}

// row, y satırının ham RGB dilimini döner.
func (b *PixelBuffer) row(y int) []byte {
	return b.Pix[y*b.Width*3 : (y+1)*b.Width*3]
}

// ─── Piksel Koşusu ──────────────────────────────────────────────────────────────

// PixelRun, tek bir piksel veri çerçevesine gidecek veri parçasıdır.
// PixelMapper tarafından her yenilemede üretilir ve hemen tüketilir.
type PixelRun struct {
	// Row, alıcının beklediği fiziksel (tel üzerindeki) satır numarasıdır.
	Row int

	// Offset, koşunun tam fiziksel satır genişliğine göre başlangıç piksel
	// ofsetidir. MTU'dan geniş ekranlarda satır birden çok koşuya bölünür.
	Offset int

	// Pixels, ham RGB üçlüleridir. Renk sırası dönüşümü kodlama anında
	// (EncodePixelRun) uygulanır.
	Pixels []byte
}

// PixelCount, koşudaki piksel sayısını döner.
func (r PixelRun) PixelCount() int { return len(r.Pixels) / 3 }

// ─── Satır Sırası Stratejisi ────────────────────────────────────────────────────

// RowOrder, bir panelin fiziksel satırını besleyen kaynak satır kümesini
// hesaplayan saf fonksiyondur. Tarama modu serpiştirmesi alıcı donanım
// yazılımına bağlıdır ve 16/32 tarama için tümüyle çözümlenmemiştir; bu
// yüzden strateji takılabilirdir, sabitlenmemiştir.
//
// physicalRow panel içindeki satır indeksidir (0 tabanlı). Boş küme dönen
// satırlar atlanır; böylece bir strateji panel başına fiziksel satır sayısını
// da belirleyebilir.
type RowOrder func(physicalRow, scanMode, panelHeight int) []int

// DirectRowOrder, kaynak satırları birebir fiziksel satırlara eşler.
// 5A-75B donanım yazılımı çoklamayı kart üzerinde çözdüğü için pratikte
// gözlemlenen davranış budur; varsayılan stratejidir.
func DirectRowOrder(physicalRow, scanMode, panelHeight int) []int {
	return []int{physicalRow}
}

// BlockRowOrder, klasik 1/N blok serpiştirmesini uygular: fiziksel satır p,
// {p, p+N, p+2N, ...} kaynak satırlarını art arda taşır. Satır verisini
// önceden serpiştirilmiş bekleyen paneller içindir.
func BlockRowOrder(physicalRow, scanMode, panelHeight int) []int {
	if scanMode <= 0 || panelHeight%scanMode != 0 {
		return []int{physicalRow}
	}
	if physicalRow >= scanMode {
		// Bu satırların verisi 0..scanMode-1 aralığındaki fiziksel
		// satırlara katlanmıştır.
		return nil
	}
	rows := make([]int, 0, panelHeight/scanMode)
	for s := physicalRow; s < panelHeight; s += scanMode {
		rows = append(rows, s)
	}
	return rows
}

// ─── Port Yönlendirme ───────────────────────────────────────────────────────────

// PortRoute, BASICROUTE tablosundaki tek bir çıkış portu (J1-J8) kaydıdır.
type PortRoute struct {
	Index   uint8 // Port indeksi (0-7)
	FlagsHi uint8 // Yüksek bayrak byte'ı
	FlagsLo uint8 // Düşük bayrak byte'ı (0x01: port etkin)
}

// DefaultPortRoutes, sekiz portun tamamını etkinleştiren varsayılan tabloyu
// döner.
func DefaultPortRoutes() []PortRoute {
	routes := make([]PortRoute, 8)
	for i := range routes {
		routes[i] = PortRoute{Index: uint8(i), FlagsLo: 0x01}
	}
	return routes
}

// ─── Harici Arayüzler ───────────────────────────────────────────────────────────

// FrameSender, ham Ethernet çerçevelerini hatta yazan arayüzdür. Arayüz
// numaralandırma ve yetki yönetimi çağıranın sorumluluğundadır; kütüphane
// yalnızca bu soyutlamayı görür.
type FrameSender interface {
	// Send, tek bir çerçeveyi bağlantı katmanına yazar. Başarı "alıcıya
	// ulaştı" değil, "hatta teslim edildi" anlamına gelir.
	Send(frame []byte) error
}

// FrameReceiver, keşif yanıtlarını okumak için isteğe bağlı arayüzdür.
type FrameReceiver interface {
	// Recv, en fazla timeout süresi bekleyerek bir çerçeve okur.
	// Süre dolduğunda (nil, nil) döner; bu bir hata değildir.
	Recv(timeout time.Duration) ([]byte, error)
}

// PixelSource, akış döngüsünün her adımda çektiği piksel kaynağıdır.
// Görüntü dosyası çözme bu çekirdeğin dışındadır; kaynaklar ham RGB üretir.
type PixelSource interface {
	// NextFrame, gösterilecek güncel kareyi döner.
	NextFrame() (*PixelBuffer, error)
}

// ─── Seçenek Yapıları ───────────────────────────────────────────────────────────

// EngineOption, Engine yapılandırma seçeneklerini tanımlar.
// Functional Options pattern kullanılır.
type EngineOption func(*engineOptions)

type engineOptions struct {
	controller      ControllerAddress
	receiver        FrameReceiver
	logger          Logger
	interFrameDelay time.Duration
	triggerDelay    time.Duration
	saveDelay       time.Duration
	rowOrder        RowOrder
	brightness      uint8
	rgbBrightness   [3]uint8
}

func defaultEngineOptions() engineOptions {
	return engineOptions{
		controller:      BroadcastAddress,
		interFrameDelay: DefaultInterFrameDelay,
		triggerDelay:    DefaultTriggerDelay,
		saveDelay:       DefaultSaveDelay,
		rowOrder:        DirectRowOrder,
		brightness:      255,
		rgbBrightness:   [3]uint8{255, 255, 255},
	}
}

// WithController, çerçevelerin hedefleyeceği denetleyici adresini ayarlar.
// Varsayılan, tüm alıcıları hedefleyen yayın adresidir.
func WithController(addr ControllerAddress) EngineOption {
	return func(o *engineOptions) {
		o.controller = addr
	}
}

// WithReceiver, keşif yanıtlarının okunacağı alıcıyı ayarlar.
// Ayarlanmazsa Discover çağrısı hata döner.
func WithReceiver(r FrameReceiver) EngineOption {
	return func(o *engineOptions) {
		o.receiver = r
	}
}

// WithLogger, özel bir loglama arayüzü ayarlar.
// Varsayılan olarak loglama devre dışıdır.
func WithLogger(l Logger) EngineOption {
	return func(o *engineOptions) {
		o.logger = l
	}
}

// WithInterFrameDelay, yapılandırma çerçeveleri arasındaki beklemeyi ayarlar.
func WithInterFrameDelay(d time.Duration) EngineOption {
	return func(o *engineOptions) {
		o.interFrameDelay = d
	}
}

// WithTriggerDelay, son satır verisi ile tetik çerçevesi arasındaki
// beklemeyi ayarlar.
func WithTriggerDelay(d time.Duration) EngineOption {
	return func(o *engineOptions) {
		o.triggerDelay = d
	}
}

// WithRowOrder, tarama modu satır sıralama stratejisini değiştirir.
// Varsayılan DirectRowOrder'dır.
func WithRowOrder(ro RowOrder) EngineOption {
	return func(o *engineOptions) {
		if ro != nil {
			o.rowOrder = ro
		}
	}
}

// WithBrightness, genel ve kanal başına parlaklık değerlerini ayarlar.
func WithBrightness(overall uint8, rgb [3]uint8) EngineOption {
	return func(o *engineOptions) {
		o.brightness = overall
		o.rgbBrightness = rgb
	}
}

// ─── Logger Arayüzü ─────────────────────────────────────────────────────────────

// Logger, kütüphanenin loglama arayüzüdür.
// stdlib log paketi veya zerolog/zap gibi kütüphanelerle uyumludur.
type Logger interface {
	// Printf, formatlanmış bir log mesajı yazar.
	Printf(format string, v ...interface{})
}
