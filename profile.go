package colorlight

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// ─── Profil Dosyaları ───────────────────────────────────────────────────────────
//
// Profile, bir kurulumun YAML üzerinden taşınabilir tanımıdır: arayüz adı,
// panel geometrisi ve akış ayarları. Komut satırı aracı profili okuyup
// motoru onunla kurar; aynı dosya kurulumlar arasında paylaşılabilir.

// Profile, YAML yapılandırma dosyası şemasıdır.
type Profile struct {
	Interface  string `yaml:"interface"`
	FPS        int    `yaml:"fps"`
	Brightness int    `yaml:"brightness"`

	PanelsX     int    `yaml:"panels_x"`
	PanelsY     int    `yaml:"panels_y"`
	PanelWidth  int    `yaml:"panel_width"`
	PanelHeight int    `yaml:"panel_height"`
	ScanMode    int    `yaml:"scan_mode"`
	Cascade     string `yaml:"cascade"`
	ColorOrder  string `yaml:"color_order"`

	InterFrameDelay time.Duration `yaml:"inter_frame_delay"`
}

// DefaultProfile, alanları makul başlangıç değerleriyle doldurulmuş profildir.
func DefaultProfile() Profile {
	return Profile{
		Interface:   "eth0",
		FPS:         30,
		Brightness:  255,
		PanelsX:     1,
		PanelsY:     1,
		PanelWidth:  64,
		PanelHeight: 32,
		ScanMode:    16,
		Cascade:     "right-to-left",
		ColorOrder:  string(OrderRGB),
	}
}

// LoadProfile, YAML profil dosyasını okur. Dosyada bulunmayan alanlar
// varsayılan değerlerinde kalır.
func LoadProfile(path string) (Profile, error) {
	p := DefaultProfile()
	data, err := os.ReadFile(path)
	if err != nil {
		return p, fmt.Errorf("profil okunamadı: %w", err)
	}
	if err := yaml.Unmarshal(data, &p); err != nil {
		return p, fmt.Errorf("profil çözümlenemedi: %w", err)
	}
	return p, nil
}

// SaveProfile, profili YAML olarak diske yazar.
func SaveProfile(path string, p Profile) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("profil kodlanamadı: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("profil yazılamadı: %w", err)
	}
	return nil
}

// cascadeNames, YAML'daki dizi yönü adlarını eşler.
var cascadeNames = map[string]CascadeDirection{
	"right-to-left": CascadeRightToLeft,
	"left-to-right": CascadeLeftToRight,
	"top-to-bottom": CascadeTopToBottom,
	"bottom-to-top": CascadeBottomToTop,
}

// Grid, profildeki geometri alanlarından doğrulanmış bir PanelGrid üretir.
func (p Profile) Grid() (PanelGrid, error) {
	cascade, ok := cascadeNames[p.Cascade]
	if !ok {
		return PanelGrid{}, fmt.Errorf("%w: bilinmeyen dizi yönü %q", ErrInvalidGrid, p.Cascade)
	}
	grid := PanelGrid{
		PanelsX:     p.PanelsX,
		PanelsY:     p.PanelsY,
		PanelWidth:  p.PanelWidth,
		PanelHeight: p.PanelHeight,
		ScanMode:    p.ScanMode,
		Cascade:     cascade,
		Order:       ColorOrder(p.ColorOrder),
	}
	if err := grid.Validate(); err != nil {
		return PanelGrid{}, err
	}
	return grid, nil
}
