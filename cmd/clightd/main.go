// clightd, alıcı kart tabanlı LED panelleri ham Ethernet üzerinden süren
// komut satırı aracıdır: keşif, yapılandırma ve sürekli piksel akışı.
//
// Ham soket açabilmek için CAP_NET_RAW (pratikte root) gerektirir.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	colorlight "github.com/alparslanahmed/colorlight-led"
)

func main() {
	// ---- Bayraklar (profil dosyası çoğunu geçersiz kılabilir) ----
	var (
		ifname      = flag.String("i", "eth0", "network interface wired to the receiver card")
		profilePath = flag.String("config", "", "path to YAML profile (optional)")
		panelsX     = flag.Int("panels-x", 1, "panel count along X")
		panelsY     = flag.Int("panels-y", 1, "panel count along Y")
		panelW      = flag.Int("panel-width", 64, "pixels per panel along X")
		panelH      = flag.Int("panel-height", 32, "pixels per panel along Y")
		scanMode    = flag.Int("scan-mode", 16, "panel scan mode (rows driven at once)")
		cascade     = flag.String("cascade", "right-to-left", "panel chain direction: right-to-left | left-to-right | top-to-bottom | bottom-to-top")
		colorOrder  = flag.String("color", "RGB", "LED color order (e.g. RGB, BGR)")
		fps         = flag.Int("fps", 30, "target frames per second")
		brightness  = flag.Int("brightness", 255, "global brightness 0..255")
		discover    = flag.Bool("discover", false, "broadcast discovery and list receiver cards, then exit")
		configure   = flag.Bool("configure", false, "send the configuration sequence before streaming")
		saveFlash   = flag.Bool("save-flash", false, "persist the configuration to the card's flash")
		rcvpPath    = flag.String("rcvp", "", "apply geometry from a receiver card parameter file (.rcvp/.rcvbp)")
		source      = flag.String("source", "bars", "pixel source: bars | solid | <path to raw RGB24 file>")
		verbose     = flag.Bool("v", false, "verbose logging")
	)
	flag.Parse()

	// ---- Loglama ----
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	// ---- Profil yükleme (isteğe bağlı; bayrakları geçersiz kılar) ----
	prof := colorlight.DefaultProfile()
	prof.Interface = *ifname
	prof.FPS = *fps
	prof.Brightness = *brightness
	prof.PanelsX, prof.PanelsY = *panelsX, *panelsY
	prof.PanelWidth, prof.PanelHeight = *panelW, *panelH
	prof.ScanMode = *scanMode
	prof.Cascade = *cascade
	prof.ColorOrder = *colorOrder

	if *profilePath != "" {
		p, err := colorlight.LoadProfile(*profilePath)
		if err != nil {
			log.Fatal().Err(err).Str("path", *profilePath).Msg("profile load failed")
		}
		prof = p
		log.Info().Str("path", *profilePath).Msg("profile loaded")
	}

	grid, err := prof.Grid()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid panel geometry")
	}

	// ---- Ham soket ----
	sock, err := openRawSocket(prof.Interface)
	if err != nil {
		log.Fatal().Err(err).Str("interface", prof.Interface).Msg("raw socket open failed (needs CAP_NET_RAW)")
	}
	defer sock.Close()

	// ---- Motor ----
	opts := []colorlight.EngineOption{
		colorlight.WithReceiver(sock),
		colorlight.WithLogger(&log.Logger),
		colorlight.WithBrightness(uint8(prof.Brightness),
			[3]uint8{uint8(prof.Brightness), uint8(prof.Brightness), uint8(prof.Brightness)}),
	}
	eng, err := colorlight.NewEngine(sock, grid, opts...)
	if err != nil {
		log.Fatal().Err(err).Msg("engine init failed")
	}

	log.Info().
		Str("interface", prof.Interface).
		Int("canvas_w", grid.CanvasWidth()).
		Int("canvas_h", grid.CanvasHeight()).
		Int("fps", prof.FPS).
		Msg("clightd starting")

	// ---- Düzgün kapanış ----
	ctx, cancel := context.WithCancel(context.Background())
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		s := <-ch
		log.Info().Str("signal", s.String()).Msg("shutting down")
		cancel()
	}()

	// ---- Keşif modu ----
	if *discover {
		cards, err := eng.Discover(ctx, 2*time.Second)
		if err != nil && err != context.Canceled {
			log.Fatal().Err(err).Msg("discovery failed")
		}
		log.Info().Int("count", len(cards)).Msg("discovery finished")
		for _, c := range cards {
			log.Info().Str("card", c.String()).Msg("receiver card")
		}
		return
	}

	// ---- Yapılandırma ----
	if *rcvpPath != "" {
		data, err := os.ReadFile(*rcvpPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", *rcvpPath).Msg("parameter file read failed")
		}
		doc, err := colorlight.Load(data)
		if err != nil {
			log.Fatal().Err(err).Str("path", *rcvpPath).Msg("parameter file parse failed")
		}
		if err := eng.ApplyDocument(ctx, doc, *saveFlash); err != nil {
			log.Fatal().Err(err).Msg("parameter file apply failed")
		}
		log.Info().Str("path", *rcvpPath).Msg("parameter file applied")
	} else if *configure || *saveFlash {
		if err := eng.Configure(ctx, *saveFlash); err != nil {
			log.Fatal().Err(err).Msg("configuration failed")
		}
		log.Info().Bool("persisted", *saveFlash).Msg("configuration applied")
	}

	// ---- Piksel kaynağı ----
	var src colorlight.PixelSource
	switch *source {
	case "bars":
		src = newBarsSource(grid.CanvasWidth(), grid.CanvasHeight())
	case "solid":
		src = newSolidSource(grid.CanvasWidth(), grid.CanvasHeight(), 255, 255, 255)
	default:
		fs, err := newFileSource(*source, grid.CanvasWidth(), grid.CanvasHeight())
		if err != nil {
			log.Fatal().Err(err).Str("path", *source).Msg("pixel source open failed")
		}
		defer fs.Close()
		src = fs
	}

	// ---- İptal edilene dek akış ----
	if err := eng.Stream(ctx, src, prof.FPS); err != nil && err != context.Canceled {
		log.Fatal().Err(err).Msg("stream failed")
	}
	log.Info().Msg("clightd stopped")
}
