package colorlight

import (
	"context"
	"fmt"
	"time"
)

// ─── Yapılandırma Dizileri ──────────────────────────────────────────────────────
//
// Alıcı kartlar yapılandırmayı aşamalı olarak kabul eder: kart alanı tanımı,
// port yönlendirmesi, temel parametreler ve isteğe bağlı gama tablosu sırayla
// yüklenir; ardından geçici kayıt (0x1B) parametreleri etkinleştirir ve kalıcı
// kayıt (0x2B) onları flaşa işler. Sıra bozulursa kart kısmi durumda kalır,
// bu yüzden dizi gönderimden ÖNCE bütün olarak doğrulanır.

// ConfigStep, bir yapılandırma dizisindeki tek adımdır.
type ConfigStep struct {
	Type    CfgType
	Payload []byte
}

// ConfigSequence, sırayla gönderilecek yapılandırma adımlarıdır.
type ConfigSequence []ConfigStep

// SequenceOptions, NewConfigSequence'in ürettiği diziyi şekillendirir.
type SequenceOptions struct {
	// Ports, port yönlendirme tablosudur. Boşsa varsayılan birebir
	// yönlendirme kullanılır.
	Ports []PortRoute

	// GammaTable, isteğe bağlı ham gama tablosudur. Boşsa gama adımı
	// diziye eklenmez.
	GammaTable []byte

	// Depth, piksel verisi renk derinliğidir.
	Depth ColorDepth

	// Persist true ise dizinin sonuna kalıcı kayıt adımı eklenir ve
	// parametreler güç kesintisini atlatır.
	Persist bool
}

// NewConfigSequence, verilen ızgara için kanonik sıradaki yapılandırma
// dizisini üretir:
//
//	CfgControlArea → CfgRouting → CfgBasicParam → [CfgGamma] → CfgEEPROMVolatile → [CfgEEPROMPersist]
func NewConfigSequence(grid PanelGrid, opts SequenceOptions) (ConfigSequence, error) {
	if err := grid.Validate(); err != nil {
		return nil, err
	}

	ports := opts.Ports
	if len(ports) == 0 {
		ports = DefaultPortRoutes()
	}

	seq := ConfigSequence{
		{Type: CfgControlArea, Payload: buildControlAreaPayload(0, nil)},
		{Type: CfgRouting, Payload: buildRoutingPayload(ports)},
		{Type: CfgBasicParam, Payload: buildBasicParamPayload(grid, opts.Depth)},
	}
	if len(opts.GammaTable) > 0 {
		seq = append(seq, ConfigStep{Type: CfgGamma, Payload: opts.GammaTable})
	}
	seq = append(seq, ConfigStep{Type: CfgEEPROMVolatile, Payload: buildVolatilePayload()})
	if opts.Persist {
		seq = append(seq, ConfigStep{Type: CfgEEPROMPersist, Payload: buildSavePayload()})
	}
	return seq, nil
}

// sequencePredecessors, her adım türünün aynı dizide kendinden önce gelmesi
// gereken türünü tanımlar. Listede olmayan türler serbesttir.
var sequencePredecessors = map[CfgType]CfgType{
	CfgRouting:        CfgControlArea,
	CfgBasicParam:     CfgRouting,
	CfgGamma:          CfgBasicParam,
	CfgEEPROMVolatile: CfgBasicParam,
	CfgEEPROMPersist:  CfgEEPROMVolatile,
}

// validateSequence, dizinin adım sırası kurallarına uyduğunu denetler.
// İhlal durumunda ErrSequenceOrder sarmalanır.
func validateSequence(seq ConfigSequence) error {
	if len(seq) == 0 {
		return fmt.Errorf("%w: dizi boş", ErrSequenceOrder)
	}
	seen := make(map[CfgType]bool, len(seq))
	for i, step := range seq {
		if pred, ok := sequencePredecessors[step.Type]; ok && !seen[pred] {
			return fmt.Errorf("%w: adım %d (%s) için önce %s gönderilmeli",
				ErrSequenceOrder, i, step.Type, pred)
		}
		seen[step.Type] = true
	}
	return nil
}

// RunConfigSequence, doğrulanmış diziyi sırayla gönderir. Adımlar arasında
// kart işleme süresi için bekleme bırakılır; kalıcı kayıt adımından önce
// flaş yazımına hazırlık için daha uzun beklenir.
//
// Herhangi bir adımın gönderimi başarısız olursa dizi orada kesilir ve hata
// ErrConfigAborted ile sarmalanır: kart kısmi durumda kalmış olabilir,
// çağıranın diziyi baştan yeniden çalıştırması gerekir.
func (e *Engine) RunConfigSequence(ctx context.Context, seq ConfigSequence) error {
	if err := validateSequence(seq); err != nil {
		return err
	}
	if err := e.begin(stateConfiguring); err != nil {
		return err
	}
	defer e.end()

	e.logf("yapılandırma başladı: %d adım", len(seq))

	for i, step := range seq {
		if i > 0 {
			delay := e.opts.interFrameDelay
			if step.Type == CfgEEPROMPersist {
				delay = e.opts.saveDelay
			}
			if err := sleepCtx(ctx, delay); err != nil {
				return fmt.Errorf("%w: adım %d (%s) öncesi iptal edildi: %v",
					ErrConfigAborted, i, step.Type, err)
			}
		}

		if err := e.sendConfig(step.Type, step.Payload); err != nil {
			return fmt.Errorf("%w: adım %d (%s) gönderilemedi: %v",
				ErrConfigAborted, i, step.Type, err)
		}
		e.logf("adım %d/%d gönderildi: %s", i+1, len(seq), step.Type)
	}

	e.logf("yapılandırma tamamlandı")
	return nil
}

// Configure, motorun ızgarası için kanonik diziyi üretip çalıştıran kısayoldur.
func (e *Engine) Configure(ctx context.Context, persist bool) error {
	seq, err := NewConfigSequence(e.grid, SequenceOptions{Persist: persist})
	if err != nil {
		return err
	}
	return e.RunConfigSequence(ctx, seq)
}

// ─── Anlık Görüntü Komutları ────────────────────────────────────────────────────

// SendBrightness, tüm kanalların parlaklığını ayarlayan görüntü çerçevesini
// gönderir ve tetik çerçevelerinde kullanılacak değeri günceller. Değer akış
// sırasında da değiştirilebilir; çerçeve hat kilidi altında yazılır.
func (e *Engine) SendBrightness(level uint8) error {
	e.mu.Lock()
	e.opts.brightness = level
	e.opts.rgbBrightness = [3]uint8{level, level, level}
	rgb := e.opts.rgbBrightness
	e.mu.Unlock()

	frame := EncodeDisplayFrame(DisplayBrightness, buildBrightnessPayload(rgb))
	if err := e.sendRaw(frame); err != nil {
		return fmt.Errorf("parlaklık çerçevesi gönderilemedi: %w", err)
	}
	e.logf("parlaklık ayarlandı: %d", level)
	return nil
}

// SendRGBBrightness, kanal başına parlaklık ayarlar.
func (e *Engine) SendRGBBrightness(r, g, b uint8) error {
	e.mu.Lock()
	e.opts.rgbBrightness = [3]uint8{r, g, b}
	rgb := e.opts.rgbBrightness
	e.mu.Unlock()

	frame := EncodeDisplayFrame(DisplayBrightness, buildBrightnessPayload(rgb))
	if err := e.sendRaw(frame); err != nil {
		return fmt.Errorf("parlaklık çerçevesi gönderilemedi: %w", err)
	}
	e.logf("kanal parlaklığı ayarlandı: r=%d g=%d b=%d", r, g, b)
	return nil
}

// SendRefresh, satır tamponunu panele yansıtan tetik çerçevesini tek başına
// gönderir. Akış döngüsü bunu her karede kendisi yapar; bu uç, dışarıdan tek
// kare basan çağıranlar içindir.
func (e *Engine) SendRefresh() error {
	e.mu.Lock()
	brightness := e.opts.brightness
	rgb := e.opts.rgbBrightness
	e.mu.Unlock()

	frame := EncodeDisplayFrame(DisplayRefresh, buildRefreshPayload(brightness, rgb))
	if err := e.sendRaw(frame); err != nil {
		return fmt.Errorf("tetik çerçevesi gönderilemedi: %w", err)
	}
	return nil
}

// SendFrameOnce, tek bir kareyi gönderip tetikler; sürekli akış başlatmadan
// sabit görüntü basmak için kullanılır.
func (e *Engine) SendFrameOnce(frame *PixelBuffer) error {
	if err := e.begin(stateStreaming); err != nil {
		return err
	}
	defer e.end()
	return e.sendFrame(frame)
}

// ApplyDocument, bir alıcı kartı yapılandırma dosyasındaki geometriyle
// yapılandırır: dosyadan ızgara türetilir, motorun ızgarasıyla birleştirilir
// ve kanonik dizi çalıştırılır. Dosyadaki kabin boyutları motorun panel
// boyutlarıyla çelişirse dosya esas alınır.
func (e *Engine) ApplyDocument(ctx context.Context, doc *Document, persist bool) error {
	grid, err := GridFromDocument(doc)
	if err != nil {
		return err
	}
	grid.PanelsX = e.grid.PanelsX
	grid.PanelsY = e.grid.PanelsY
	grid.Cascade = e.grid.Cascade

	seq, err := NewConfigSequence(grid, SequenceOptions{Persist: persist})
	if err != nil {
		return err
	}
	return e.RunConfigSequence(ctx, seq)
}

// WaitSettle, kartın son yapılandırmayı işlemesi için sabit bir süre bekler.
func (e *Engine) WaitSettle() { time.Sleep(e.opts.saveDelay) }
