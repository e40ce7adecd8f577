package colorlight

import "fmt"

// ─── Piksel Eşleme ──────────────────────────────────────────────────────────────
//
// Bu dosya, dikdörtgen bir piksel tamponunu çoklamalı panel dizisinin
// beklediği fiziksel satır/paket dizisine çevirir. Plan her çağrıda yeniden
// üretilir; çağrılar arasında durum tutulmaz. Aynı (tuval, ızgara) girdisi
// için çıktı byte'ı byte'ına aynıdır; testlerin tekrarlanabilirliği ve
// düşen bir gönderimin yeniden iletimi buna dayanır.
//
// Zincirleme yönü tel satırlarının kaynağa eşlenmesini belirler:
//
//   - LeftToRight: tel satırı = tuval satırı; paneller soldan sağa okunur.
//   - RightToLeft: tel satırı = tuval satırı; panel sırası tersine çevrilir
//     (her panelin içi yine soldan sağa okunur).
//   - TopToBottom: zincir panel sütunları boyunca iner; tel tuvali panel
//     genişliğindedir ve her zincirin panelleri alt alta dizilir.
//   - BottomToTop: TopToBottom'ın panel sırası tersine çevrilmiş halidir.

// PlanFrame, tuvali varsayılan satır sırası stratejisiyle (DirectRowOrder)
// sıralı piksel koşularına dönüştürür. Her fiziksel satır tam olarak bir kez,
// alıcının beklediği sırada kapsanır.
func PlanFrame(canvas *PixelBuffer, grid PanelGrid) ([]PixelRun, error) {
	return PlanFrameWithOrder(canvas, grid, DirectRowOrder)
}

// PlanFrameWithOrder, tuvali verilen satır sırası stratejisiyle piksel
// koşularına dönüştürür. Tuval boyutları ızgaranın adreslenebilir tuvaliyle
// birebir uyuşmalıdır; uyuşmazlık hiçbir çerçeve gönderilmeden ErrSizeMismatch
// ile yakalanır.
func PlanFrameWithOrder(canvas *PixelBuffer, grid PanelGrid, order RowOrder) ([]PixelRun, error) {
	if err := grid.Validate(); err != nil {
		return nil, err
	}
	if canvas == nil || canvas.Width != grid.CanvasWidth() || canvas.Height != grid.CanvasHeight() {
		w, h := 0, 0
		if canvas != nil {
			w, h = canvas.Width, canvas.Height
		}
		return nil, fmt.Errorf("%w: tuval %dx%d, ızgara %dx%d",
			ErrSizeMismatch, w, h, grid.CanvasWidth(), grid.CanvasHeight())
	}
	if len(canvas.Pix) != canvas.Width*canvas.Height*3 {
		return nil, fmt.Errorf("%w: tampon %d byte, beklenen %d",
			ErrSizeMismatch, len(canvas.Pix), canvas.Width*canvas.Height*3)
	}
	if order == nil {
		order = DirectRowOrder
	}

	if grid.Cascade.vertical() {
		return planVertical(canvas, grid, order)
	}
	return planHorizontal(canvas, grid, order)
}

// planHorizontal, yatay zincirler (LeftToRight, RightToLeft) için planı
// üretir. Tel satırı, tuval satırıyla aynı yüksekliktedir; panel parçaları
// zincir sırasında art arda eklenir.
func planHorizontal(canvas *PixelBuffer, grid PanelGrid, order RowOrder) ([]PixelRun, error) {
	runs := make([]PixelRun, 0, canvas.Height)
	panelW3 := grid.PanelWidth * 3

	wireRow := 0
	for py := 0; py < grid.PanelsY; py++ {
		for r := 0; r < grid.PanelHeight; r++ {
			srcRows := order(r, grid.ScanMode, grid.PanelHeight)
			if len(srcRows) == 0 {
				continue
			}

			// Tel satırı verisi: her kaynak satır için paneller zincir
			// sırasında gezilir.
			rowPix := make([]byte, 0, len(srcRows)*canvas.Width*3)
			for _, s := range srcRows {
				src := canvas.row(py*grid.PanelHeight + s)
				for i := 0; i < grid.PanelsX; i++ {
					px := i
					if grid.Cascade == CascadeRightToLeft {
						px = grid.PanelsX - 1 - i
					}
					rowPix = append(rowPix, src[px*panelW3:(px+1)*panelW3]...)
				}
			}

			runs = appendChunked(runs, wireRow, rowPix)
			wireRow++
		}
	}
	return runs, nil
}

// planVertical, dikey zincirler (TopToBottom, BottomToTop) için planı üretir.
// Tel tuvali yatay düzene göre panel düzeyinde transpozedir: tel satır
// genişliği tek panel genişliğidir ve her panel sütunundaki paneller zincir
// sırasında alt alta dizilir.
func planVertical(canvas *PixelBuffer, grid PanelGrid, order RowOrder) ([]PixelRun, error) {
	runs := make([]PixelRun, 0, grid.PanelsX*grid.PanelsY*grid.PanelHeight)
	panelW3 := grid.PanelWidth * 3

	wireRow := 0
	for px := 0; px < grid.PanelsX; px++ {
		for j := 0; j < grid.PanelsY; j++ {
			py := j
			if grid.Cascade == CascadeBottomToTop {
				py = grid.PanelsY - 1 - j
			}
			for r := 0; r < grid.PanelHeight; r++ {
				srcRows := order(r, grid.ScanMode, grid.PanelHeight)
				if len(srcRows) == 0 {
					continue
				}

				rowPix := make([]byte, 0, len(srcRows)*panelW3)
				for _, s := range srcRows {
					src := canvas.row(py*grid.PanelHeight + s)
					rowPix = append(rowPix, src[px*panelW3:(px+1)*panelW3]...)
				}

				runs = appendChunked(runs, wireRow, rowPix)
				wireRow++
			}
		}
	}
	return runs, nil
}

// appendChunked, bir tel satırının piksel verisini MTU sınırına göre ardışık
// koşulara böler. Soldan sağa sıra korunur ve her koşunun ofseti tam satır
// genişliğine göre kaydedilir; böylece koşular ofset sırasında birleştirilince
// satır eksiksiz geri elde edilir.
func appendChunked(runs []PixelRun, wireRow int, rowPix []byte) []PixelRun {
	width := len(rowPix) / 3
	for off := 0; off < width; off += MaxPixelsPerRun {
		n := width - off
		if n > MaxPixelsPerRun {
			n = MaxPixelsPerRun
		}
		runs = append(runs, PixelRun{
			Row:    wireRow,
			Offset: off,
			Pixels: rowPix[off*3 : (off+n)*3],
		})
	}
	return runs
}
