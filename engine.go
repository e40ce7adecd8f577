package colorlight

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ─── İletim Motoru ──────────────────────────────────────────────────────────────
//
// Engine, bir mantıksal oturum üzerindeki durum makinesidir:
//
//	Idle → Configuring → Streaming → Stopped (+ Idle'dan ulaşılan Discovering)
//
// Soket, o an hangi durum aktifse ona aittir: akış, yapılandırma ve keşif
// birbirini dışlar. İki kaynaktan serpiştirilmiş çerçeveler alıcının artımlı
// satır tamponunu bozacağı için hat yazıcısı her zaman tek bir işin elindedir.

// engineState, motorun oturum durumunu temsil eder.
type engineState int

// discoverPollInterval, keşif döngüsündeki tek bir okumanın üst süre
// sınırıdır; iptal denetimi bu tanecikle çalışır.
const discoverPollInterval = 50 * time.Millisecond

const (
	stateIdle engineState = iota
	stateConfiguring
	stateStreaming
	stateDiscovering
	stateStopped
)

// String, durumun okunabilir adını döner.
func (s engineState) String() string {
	switch s {
	case stateIdle:
		return "Idle"
	case stateConfiguring:
		return "Configuring"
	case stateStreaming:
		return "Streaming"
	case stateDiscovering:
		return "Discovering"
	case stateStopped:
		return "Stopped"
	default:
		return fmt.Sprintf("Unknown(%d)", int(s))
	}
}

// Engine, yapılandırma dizilerini, keşfi ve sürekli piksel akışını çağıranın
// sağladığı ham soket soyutlaması üzerinden yürüten ana yapıdır.
//
// Kullanım:
//
//	eng, err := colorlight.NewEngine(sender, grid,
//	    colorlight.WithReceiver(recv),
//	    colorlight.WithLogger(log.Default()),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	err = eng.Configure(ctx, false)
//	err = eng.Stream(ctx, source, 60)
type Engine struct {
	// sender, dışarıdan sağlanan ham çerçeve yazıcısıdır.
	sender FrameSender

	// grid, oturum boyunca değişmeyen panel geometrisidir.
	grid PanelGrid

	// opts, motor yapılandırma seçenekleridir.
	opts engineOptions

	// sessionID, log satırlarını oturuma bağlayan benzersiz kimliktir.
	sessionID string

	// mu, durum geçişlerini korur.
	mu    sync.Mutex
	state engineState

	// writeMu, hat yazımlarını sıralar. Durum makinesi zaten tek yazıcıyı
	// garanti eder; bu kilit geçiş anlarındaki sıralamayı sabitler.
	writeMu sync.Mutex

	// seq, yapılandırma çerçevelerinin sıra numarası sayacıdır.
	seq uint8
}

// NewEngine, yeni bir iletim motoru oluşturur. Izgara tanımı burada bir kez
// doğrulanır; geçersiz geometri hiçbir çerçeve gönderilmeden reddedilir.
func NewEngine(sender FrameSender, grid PanelGrid, options ...EngineOption) (*Engine, error) {
	if sender == nil {
		return nil, fmt.Errorf("gönderici nil olamaz")
	}
	if err := grid.Validate(); err != nil {
		return nil, err
	}

	opts := defaultEngineOptions()
	for _, opt := range options {
		opt(&opts)
	}

	return &Engine{
		sender:    sender,
		grid:      grid,
		opts:      opts,
		sessionID: uuid.New().String(),
		state:     stateIdle,
	}, nil
}

// Grid, motorun panel geometrisini döner.
func (e *Engine) Grid() PanelGrid { return e.grid }

// Controller, çerçevelerin hedeflediği denetleyici adresini döner.
func (e *Engine) Controller() ControllerAddress { return e.opts.controller }

// SessionID, oturumun benzersiz kimliğini döner.
func (e *Engine) SessionID() string { return e.sessionID }

// ─── Durum Geçişleri ────────────────────────────────────────────────────────────

// begin, motoru Idle'dan verilen duruma geçirir. Başka bir işlem aktifse
// ErrEngineBusy döner.
func (e *Engine) begin(s engineState) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != stateIdle {
		return fmt.Errorf("%w: %s aktifken %s başlatılamaz", ErrEngineBusy, e.state, s)
	}
	e.state = s
	e.logf("durum: Idle → %s", s)
	return nil
}

// end, aktif durumu sonlandırıp motoru Idle'a döndürür.
func (e *Engine) end() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.logf("durum: %s → Idle", e.state)
	e.state = stateIdle
}

// ─── Hat Yazımı ─────────────────────────────────────────────────────────────────

// sendRaw, tek bir çerçeveyi hatta yazar.
func (e *Engine) sendRaw(frame []byte) error {
	e.writeMu.Lock()
	defer e.writeMu.Unlock()
	return e.sender.Send(frame)
}

// nextSeq, bir sonraki yapılandırma sıra numarasını döner.
func (e *Engine) nextSeq() uint8 {
	e.mu.Lock()
	defer e.mu.Unlock()
	s := e.seq
	e.seq++
	return s
}

// sendConfig, bir yapılandırma çerçevesini kodlayıp gönderir.
func (e *Engine) sendConfig(typ CfgType, payload []byte) error {
	frame, err := EncodeConfigFrame(e.opts.controller, typ, e.nextSeq(), payload)
	if err != nil {
		return err
	}
	return e.sendRaw(frame)
}

// sleepCtx, bağlam iptalini gözeterek bekler.
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// ─── Keşif ──────────────────────────────────────────────────────────────────────

// Discover, tek bir keşif isteğini (0x07) sıfır denetleyici adresiyle yayınlar
// ve timeout dolana dek gelen keşif yanıtlarını (0x08) toplar. Yanıtlar
// 16 byte'lık adrese göre tekilleştirilir. Hiçbir alıcının yanıt vermemesi
// normal bir sonuçtur; boş küme döner, hata değil.
//
// Çoklu alıcı yönlendirmesi henüz tamamlanmamıştır; bu işlem yol haritası
// gereği tek bir elinden-geleni-yapan yayınla-topla adımıdır.
func (e *Engine) Discover(ctx context.Context, timeout time.Duration) ([]ControllerAddress, error) {
	if e.opts.receiver == nil {
		return nil, ErrNoReceiver
	}
	if err := e.begin(stateDiscovering); err != nil {
		return nil, err
	}
	defer e.end()

	frame, err := EncodeConfigFrame(BroadcastAddress, CfgDiscoveryRequest, e.nextSeq(), buildDiscoveryPayload())
	if err != nil {
		return nil, err
	}
	if err := e.sendRaw(frame); err != nil {
		return nil, fmt.Errorf("keşif isteği gönderilemedi: %w", err)
	}
	e.logf("keşif isteği yayınlandı (zaman aşımı %v)", timeout)

	seen := make(map[ControllerAddress]struct{})
	var found []ControllerAddress

	deadline := time.Now().Add(timeout)
	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			break
		}
		select {
		case <-ctx.Done():
			return found, ctx.Err()
		default:
		}

		// Okuma yoklama aralığıyla sınırlanır; iptal, tüm zaman aşımını
		// beklemeden bir sonraki turda görülür.
		wait := remaining
		if wait > discoverPollInterval {
			wait = discoverPollInterval
		}

		data, err := e.opts.receiver.Recv(wait)
		if err != nil {
			return found, fmt.Errorf("keşif yanıtı okunamadı: %w", err)
		}
		if data == nil {
			// Zaman aşımı: toplanan küme neyse odur.
			break
		}

		resp, err := DecodeConfigFrame(data)
		if err != nil {
			// Hat üzerinde bizim olmayan çerçeveler de akar; sessizce geç.
			continue
		}
		addr, ok := parseDiscoveryResponse(resp)
		if !ok {
			continue
		}
		if _, dup := seen[addr]; dup {
			continue
		}
		seen[addr] = struct{}{}
		found = append(found, addr)
		e.logf("alıcı bulundu: %s", addr)
	}

	return found, nil
}

// ─── Akış ───────────────────────────────────────────────────────────────────────

// Stream, iptal edilene kadar çalışan sürekli piksel akışı döngüsüdür.
// Her adımda (targetFPS hızında) kaynaktan güncel kare çekilir, piksel
// planı üretilir, tüm koşular kodlanıp gönderilir ve yenilemeyi kilitleyen
// tetik çerçevesi yollanır.
//
// Tek bir koşunun gönderim hatası loglanır ve koşu düşürülür: protokolde
// paket başına onay yoktur, yeniden deneme anlamsızdır ve düşen kare bir
// sonraki adımda kendiliğinden iyileşir.
//
// İptal kooperatiftir (adım başına bir kez denetlenir) ve dönüşten önce tek
// bir tümü-siyah kare gönderilir; paneller bayat içerikte donup kalmaz.
func (e *Engine) Stream(ctx context.Context, source PixelSource, targetFPS int) error {
	if source == nil {
		return fmt.Errorf("piksel kaynağı nil olamaz")
	}
	if targetFPS <= 0 {
		return fmt.Errorf("hedef kare hızı pozitif olmalı: %d", targetFPS)
	}
	if err := e.begin(stateStreaming); err != nil {
		return err
	}
	defer e.end()

	e.logf("akış başladı: %dx%d @ %d fps",
		e.grid.CanvasWidth(), e.grid.CanvasHeight(), targetFPS)

	ticker := time.NewTicker(time.Second / time.Duration(targetFPS))
	defer ticker.Stop()

	var framesSent uint64
	start := time.Now()
	lastStats := start

	for {
		select {
		case <-ctx.Done():
			e.blackout()
			e.logf("akış durdu: %d kare, %.1f sn", framesSent, time.Since(start).Seconds())
			return ctx.Err()

		case <-ticker.C:
			frame, err := source.NextFrame()
			if err != nil {
				e.logf("UYARI: kare alınamadı: %v", err)
				continue
			}
			if frame == nil {
				continue
			}

			if err := e.sendFrame(frame); err != nil {
				// Geometri hataları kalıcıdır; akışı sonlandır.
				return err
			}
			framesSent++

			if now := time.Now(); now.Sub(lastStats) >= 5*time.Second {
				fps := float64(framesSent) / now.Sub(start).Seconds()
				e.logf("istatistik: %d kare, %.1f fps", framesSent, fps)
				lastStats = now
			}
		}
	}
}

// sendFrame, tek bir karenin tüm koşularını ve tetik çerçevesini gönderir.
// Koşu gönderim hataları en-iyi-çaba ile yutulur; plan hataları döner.
func (e *Engine) sendFrame(frame *PixelBuffer) error {
	runs, err := PlanFrameWithOrder(frame, e.grid, e.opts.rowOrder)
	if err != nil {
		return err
	}

	order := e.grid.ColorOrder()
	for _, run := range runs {
		wire, err := EncodePixelRun(run, order)
		if err != nil {
			return err
		}
		if err := e.sendRaw(wire); err != nil {
			e.logf("UYARI: satır %d ofset %d gönderilemedi, düşürüldü: %v",
				run.Row, run.Offset, err)
		}
	}

	e.mu.Lock()
	brightness := e.opts.brightness
	rgb := e.opts.rgbBrightness
	e.mu.Unlock()

	// Alıcının satır tamponunun dolması için kısa bekleme, sonra tetik.
	time.Sleep(e.opts.triggerDelay)
	trigger := EncodeDisplayFrame(DisplayRefresh,
		buildRefreshPayload(brightness, rgb))
	if err := e.sendRaw(trigger); err != nil {
		e.logf("UYARI: tetik çerçevesi gönderilemedi: %v", err)
	}
	return nil
}

// blackout, panelleri kapatan tümü-siyah kareyi gönderir.
func (e *Engine) blackout() {
	black := NewPixelBuffer(e.grid.CanvasWidth(), e.grid.CanvasHeight())
	if err := e.sendFrame(black); err != nil {
		e.logf("UYARI: kapanış karesi gönderilemedi: %v", err)
	}
}

// ─── Dahili Yardımcılar ─────────────────────────────────────────────────────────

// logf, yapılandırılmış logger varsa mesaj yazar.
func (e *Engine) logf(format string, v ...interface{}) {
	if e.opts.logger != nil {
		args := make([]interface{}, 0, len(v)+1)
		args = append(args, e.sessionID[:8])
		args = append(args, v...)
		e.opts.logger.Printf("[colorlight %s] "+format, args...)
	}
}
