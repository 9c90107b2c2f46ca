/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"producerstoolkit/internal/domain"
	"producerstoolkit/internal/schedule"
	"producerstoolkit/internal/storage"
)

// StripOptions controls strip board rendering.
// - StripWidth/StripHeight: pixel size of one strip; defaults 900x36
// - Scale: integer multiplier applied to the whole board; default 1
type StripOptions struct {
	StripWidth  int
	StripHeight int
	Scale       int
}

// Production strip board colors: INT/DAY white, EXT/DAY yellow,
// INT/NIGHT blue, EXT/NIGHT green. Anything else gets gray.
func stripColor(intExt, timeOfDay string) color.RGBA {
	day := true
	switch strings.ToUpper(strings.TrimSpace(timeOfDay)) {
	case "NIGHT", "EVENING", "DUSK":
		day = false
	}
	ext := strings.HasPrefix(strings.ToUpper(intExt), "EXT") ||
		intExt == domain.IntExtBoth
	switch {
	case !ext && day:
		return color.RGBA{255, 255, 255, 255}
	case ext && day:
		return color.RGBA{255, 240, 120, 255}
	case !ext && !day:
		return color.RGBA{150, 190, 255, 255}
	case ext && !day:
		return color.RGBA{150, 230, 150, 255}
	}
	return color.RGBA{210, 210, 210, 255}
}

// ExportStripPNG renders the schedule as a strip board image: one colored
// strip per scene row and a narrow gray strip per summary row, stacked
// vertically in shooting order. A relative outPath lands under
// <project>/exports/.
func ExportStripPNG(ph *storage.ProjectHandle, sch schedule.Schedule, outPath string, opt StripOptions) error {
	if ph == nil {
		return fmt.Errorf("project handle is nil")
	}
	w := opt.StripWidth
	if w <= 0 {
		w = 900
	}
	h := opt.StripHeight
	if h <= 0 {
		h = 36
	}
	summaryH := h * 2 / 3

	totalH := 0
	for _, r := range sch.Rows {
		if r.Kind == schedule.RowScene {
			totalH += h
		} else {
			totalH += summaryH
		}
	}
	if totalH == 0 {
		totalH = summaryH
	}

	img := image.NewRGBA(image.Rect(0, 0, w, totalH))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.RGBA{255, 255, 255, 255}}, image.Point{}, draw.Src)

	border := color.RGBA{0, 0, 0, 255}
	y := 0
	for _, r := range sch.Rows {
		sh := h
		fill := color.RGBA{210, 210, 210, 255}
		label := r.Label
		if r.Kind == schedule.RowScene {
			fill = stripColor(r.Scene.IntExt, r.Scene.TimeOfDay)
			label = fmt.Sprintf("%d  %s  %s pgs  %s-%s",
				r.Scene.Number, r.Scene.Heading, r.Pages,
				r.Start, r.End)
		} else {
			sh = summaryH
		}
		fillRect(img, 0, y, w-1, y+sh-1, fill)
		strokeRect(img, 0, y, w-1, y+sh-1, border)
		drawLabel(img, 8, y+sh/2+basicfont.Face7x13.Ascent/2, label, border)
		y += sh
	}

	out := img
	if opt.Scale > 1 {
		out = scaleNearest(img, opt.Scale)
	}

	path, err := resolveOut(ph, outPath)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create png: %w", err)
	}
	if err := png.Encode(f, out); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode png: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close png: %w", err)
	}
	return nil
}

// drawLabel renders text with the built-in 7x13 face, clipped by the image bounds.
func drawLabel(img *image.RGBA, x, baseline int, text string, col color.RGBA) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, baseline),
	}
	d.DrawString(text)
}

// scaleNearest magnifies an image by an integer factor without smoothing.
func scaleNearest(src *image.RGBA, factor int) *image.RGBA {
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx()*factor, b.Dy()*factor))
	for y := 0; y < b.Dy()*factor; y++ {
		for x := 0; x < b.Dx()*factor; x++ {
			dst.SetRGBA(x, y, src.RGBAAt(x/factor, y/factor))
		}
	}
	return dst
}

// strokeRect draws a 1px axis-aligned rectangle border inclusive of endpoints.
func strokeRect(img *image.RGBA, x0, y0, x1, y1 int, col color.RGBA) {
	for x := x0; x <= x1; x++ {
		img.SetRGBA(x, y0, col)
		img.SetRGBA(x, y1, col)
	}
	for y := y0; y <= y1; y++ {
		img.SetRGBA(x0, y, col)
		img.SetRGBA(x1, y, col)
	}
}

func fillRect(img *image.RGBA, x0, y0, x1, y1 int, col color.RGBA) {
	if x1 < x0 {
		x0, x1 = x1, x0
	}
	if y1 < y0 {
		y0, y1 = y1, y0
	}
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			img.SetRGBA(x, y, col)
		}
	}
}
