package main

import (
	"fmt"
	"io"
	"os"

	colorlight "github.com/alparslanahmed/colorlight-led"
)

// fileSource, ham RGB24 kareleri bir dosyadan okuyan piksel kaynağıdır.
// Dosya art arda dizilmiş width*height*3 baytlık karelerden oluşur; sona
// gelindiğinde başa sarılır. ffmpeg'in rawvideo çıktısıyla doğrudan uyumludur:
//
//	ffmpeg -i video.mp4 -f rawvideo -pix_fmt rgb24 -s 192x64 out.rgb
type fileSource struct {
	f   *os.File
	buf *colorlight.PixelBuffer
}

func newFileSource(path string, width, height int) (*fileSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("kaynak dosya açılamadı: %w", err)
	}
	return &fileSource{
		f:   f,
		buf: colorlight.NewPixelBuffer(width, height),
	}, nil
}

// NextFrame, sıradaki kareyi okur; dosya sonunda başa döner.
func (s *fileSource) NextFrame() (*colorlight.PixelBuffer, error) {
	if _, err := io.ReadFull(s.f, s.buf.Pix); err != nil {
		if err != io.EOF && err != io.ErrUnexpectedEOF {
			return nil, fmt.Errorf("kare okunamadı: %w", err)
		}
		if _, err := s.f.Seek(0, io.SeekStart); err != nil {
			return nil, fmt.Errorf("dosya başına dönülemedi: %w", err)
		}
		if _, err := io.ReadFull(s.f, s.buf.Pix); err != nil {
			return nil, fmt.Errorf("kare okunamadı: %w", err)
		}
	}
	return s.buf, nil
}

func (s *fileSource) Close() error { return s.f.Close() }

// barsSource, dikey renk çubukları üreten test deseni kaynağıdır. Her karede
// desen bir piksel kayar; panel diziliminin ve tazelemenin hızlı görsel
// denetimi için kullanılır.
type barsSource struct {
	buf    *colorlight.PixelBuffer
	offset int
}

var barColors = [][3]uint8{
	{255, 255, 255},
	{255, 255, 0},
	{0, 255, 255},
	{0, 255, 0},
	{255, 0, 255},
	{255, 0, 0},
	{0, 0, 255},
	{0, 0, 0},
}

func newBarsSource(width, height int) *barsSource {
	return &barsSource{buf: colorlight.NewPixelBuffer(width, height)}
}

func (s *barsSource) NextFrame() (*colorlight.PixelBuffer, error) {
	barWidth := s.buf.Width / len(barColors)
	if barWidth == 0 {
		barWidth = 1
	}
	for y := 0; y < s.buf.Height; y++ {
		for x := 0; x < s.buf.Width; x++ {
			c := barColors[((x+s.offset)/barWidth)%len(barColors)]
			s.buf.SetPixel(x, y, c[0], c[1], c[2])
		}
	}
	s.offset++
	return s.buf, nil
}

// solidSource, tek renkli sabit kare üretir.
type solidSource struct {
	buf *colorlight.PixelBuffer
}

func newSolidSource(width, height int, r, g, b uint8) *solidSource {
	buf := colorlight.NewPixelBuffer(width, height)
	buf.Fill(r, g, b)
	return &solidSource{buf: buf}
}

func (s *solidSource) NextFrame() (*colorlight.PixelBuffer, error) {
	return s.buf, nil
}
