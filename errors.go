package colorlight

import "errors"

// ─── Hata Taksonomisi ───────────────────────────────────────────────────────────
//
// Bu çekirdekte hiçbir hatalı girdi sessizce düzeltilmez. Tel durumunu veya
// kalıcı bir yapılandırma dosyasını tutarsız bırakabilecek her durum anında
// hata döner. Tek istisna, onaysız ve sürekli yenilenen piksel akışıdır:
// orada düşen bir çerçeve bir sonraki karede kendiliğinden iyileşir.

var (
	// ErrTooShort, çözümlenmek istenen verinin sabit başlıktan bile kısa
	// olduğunu belirtir.
	ErrTooShort = errors.New("veri beklenen sabit başlıktan kısa")

	// ErrBadSync, yapılandırma çerçevesindeki 8 byte'lık senkron deseninin
	// eşleşmediğini belirtir. Böyle bir çerçeve hiçbir alıcı için geçerli
	// değildir ve protokol senkron kaybına işaret eder.
	ErrBadSync = errors.New("senkron deseni eşleşmiyor")

	// ErrBadMagic, yapılandırma dosyasının imza byte'larının bilinen
	// sabitlerle eşleşmediğini belirtir.
	ErrBadMagic = errors.New("dosya imzası tanınmıyor")

	// ErrDecompress, sıkıştırılmış yapılandırma gövdesinin zlib olarak
	// açılamadığını belirtir.
	ErrDecompress = errors.New("sıkıştırılmış gövde açılamadı")

	// ErrRunTooLarge, bir piksel koşusunun MTU türevli 497 piksel sınırını
	// aştığını belirtir.
	ErrRunTooLarge = errors.New("piksel koşusu 497 piksel sınırını aşıyor")

	// ErrRunMisaligned, piksel koşusu verisinin 3 byte'lık RGB üçlülerine
	// bölünemediğini belirtir. Kuyruk byte'ları sessizce düşürülmez.
	ErrRunMisaligned = errors.New("piksel verisi RGB üçlülerine bölünemiyor")

	// ErrPayloadTooLarge, sabit toplam uzunluklu bir çerçeve tipine sığmayan
	// yük verildiğini belirtir.
	ErrPayloadTooLarge = errors.New("yük, çerçeve tipinin sabit uzunluğunu aşıyor")

	// ErrSizeMismatch, tuval boyutlarının ızgaranın adreslenebilir tuvaliyle
	// uyuşmadığını belirtir. Hiçbir çerçeve gönderilmeden önce yakalanır.
	ErrSizeMismatch = errors.New("tuval boyutları panel ızgarasıyla uyuşmuyor")

	// ErrSequenceOrder, yapılandırma adımlarının zorunlu sıranın dışında
	// verildiğini belirtir. Kalıcı kayıt adımı, kalıcılaştıracağı parametre
	// çerçevelerinden önce gönderilemez.
	ErrSequenceOrder = errors.New("yapılandırma adımları zorunlu sıranın dışında")

	// ErrConfigAborted, bir yapılandırma çerçevesinin gönderiminin başarısız
	// olduğunu ve dizinin kalanının iptal edildiğini belirtir. Yarım kalmış
	// bir dizi alıcıyı tutarsız durumda bırakabilir.
	ErrConfigAborted = errors.New("yapılandırma dizisi yarıda kesildi")

	// ErrEngineBusy, motor başka bir durumda (akış, yapılandırma veya keşif)
	// iken çakışan bir işlem istendiğini belirtir. Tek yazıcı kuralı: aynı
	// sokete iki kaynaktan çerçeve yazılamaz.
	ErrEngineBusy = errors.New("motor meşgul: akış, yapılandırma ve keşif birbirini dışlar")

	// ErrNoReceiver, keşif için bir FrameReceiver yapılandırılmadığını
	// belirtir.
	ErrNoReceiver = errors.New("alıcı yapılandırılmamış; WithReceiver kullanın")

	// ErrInvalidGrid, panel ızgarası tanımının tutarsız olduğunu belirtir.
	ErrInvalidGrid = errors.New("geçersiz panel ızgarası")

	// ErrInvalidColorOrder, tanınmayan bir renk sıralaması belirtir.
	ErrInvalidColorOrder = errors.New("geçersiz renk sıralaması")

	// ErrUnknownField, yapılandırma dosyası alan tablosunda bulunmayan bir
	// alan adı belirtir.
	ErrUnknownField = errors.New("bilinmeyen yapılandırma alanı")

	// ErrFieldOutOfRange, alanın dosya gövdesinin dışına taştığını belirtir.
	ErrFieldOutOfRange = errors.New("alan, dosya gövdesinin dışında")
)
