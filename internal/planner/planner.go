// Package planner turns a bitmap into an ordered list of drawing
// primitives that recreate it on the canvas. Planning is pure: it
// never touches the display, so it can run (and be tested) without a
// Paint window.
package planner

import (
	"bytes"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"image"
	"math"
	"sort"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/image/draw"

	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"

	"github.com/paintmcp/paintd/config"
	"github.com/paintmcp/paintd/internal/domain"
)

// referenceSize is the image dimension at which one source pixel maps
// to one grid cell at detail 100
const referenceSize = 500.0

// ColorGroup holds every primitive of one color, in replay order
type ColorGroup struct {
	Color      domain.Color
	CellCount  int
	Primitives []domain.DrawingPrimitive
}

// Plan is a complete recreation plan. Groups are ordered by descending
// cell count so a replay issues one color change per group and spends
// the first, largest strokes on the dominant colors.
type Plan struct {
	SourceWidth  int
	SourceHeight int
	Step         int
	Groups       []ColorGroup
	Total        int
}

// Colors returns the number of distinct colors in the plan
func (p *Plan) Colors() int {
	return len(p.Groups)
}

// Planner builds recreation plans and caches payload decoding
type Planner struct {
	cfg   config.PlannerConfig
	cache *cache.Cache
}

// New creates a planner with the given limits
func New(cfg config.PlannerConfig) *Planner {
	ttl := time.Duration(cfg.DecodeCacheTTLSeconds) * time.Second
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Planner{
		cfg:   cfg,
		cache: cache.New(ttl, 2*ttl),
	}
}

// Decode turns a base64 payload into an image. PNG, JPEG and BMP are
// accepted. Oversized inputs are downsampled to the configured maximum
// dimension before any planning. Identical payloads hit a content
// cache instead of being decoded again.
func (p *Planner) Decode(imageBase64 string) (image.Image, error) {
	sum := sha256.Sum256([]byte(imageBase64))
	key := hex.EncodeToString(sum[:])

	if cached, ok := p.cache.Get(key); ok {
		return cached.(image.Image), nil
	}

	raw, err := base64.StdEncoding.DecodeString(imageBase64)
	if err != nil {
		return nil, domain.WrapError(domain.CodeInvalidParameters, err, "image_base64 is not valid base64")
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, domain.WrapError(domain.CodeInvalidImageFormat, err, "unsupported image data (need png, jpeg or bmp)")
	}

	img = p.downsample(img)
	p.cache.SetDefault(key, img)
	return img, nil
}

// downsample shrinks img so neither dimension exceeds the configured
// limit, preserving aspect ratio
func (p *Planner) downsample(img image.Image) image.Image {
	limit := p.cfg.MaxInputDimension
	if limit <= 0 {
		return img
	}

	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= limit && h <= limit {
		return img
	}

	ratio := float64(limit) / float64(max(w, h))
	dw := max(1, int(math.Round(float64(w)*ratio)))
	dh := max(1, int(math.Round(float64(h)*ratio)))

	dst := image.NewRGBA(image.Rect(0, 0, dw, dh))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// Build plans the recreation of img onto a canvas of the given logical
// size. detail ranges 1-200; higher means a finer grid.
func (p *Planner) Build(img image.Image, canvasWidth, canvasHeight, detail int) (*Plan, error) {
	if detail < 1 || detail > 200 {
		return nil, domain.ErrInvalidParameters("max_detail_level must be between 1 and 200, got %d", detail)
	}
	if canvasWidth <= 0 || canvasHeight <= 0 {
		return nil, domain.ErrInvalidParameters("canvas dimensions must be positive, got %dx%d", canvasWidth, canvasHeight)
	}

	b := img.Bounds()
	srcW, srcH := b.Dx(), b.Dy()
	if srcW == 0 || srcH == 0 {
		return nil, domain.ErrInvalidParameters("image has no pixels")
	}

	step := gridStep(srcW, srcH, detail)
	step = coarsenToCap(srcW, srcH, step, p.cfg.MaxPrimitives)

	cells := sampleCells(img, step)
	groups := groupByColor(cells, srcW, srcH, canvasWidth, canvasHeight, step)

	total := 0
	for _, g := range groups {
		total += len(g.Primitives)
	}

	return &Plan{
		SourceWidth:  srcW,
		SourceHeight: srcH,
		Step:         step,
		Groups:       groups,
		Total:        total,
	}, nil
}

// gridStep derives the cell side from image size and detail level
func gridStep(w, h, detail int) int {
	scale := float64(max(w, h)) / referenceSize
	step := int(math.Round(scale * 200.0 / float64(detail)))
	return max(1, step)
}

// coarsenToCap grows the step until the cell count fits the primitive
// budget. Run merging only ever shrinks the plan, so capping cells caps
// primitives.
func coarsenToCap(w, h, step, maxPrimitives int) int {
	if maxPrimitives <= 0 {
		return step
	}
	for cellCount(w, step)*cellCount(h, step) > maxPrimitives {
		step++
	}
	return step
}

func cellCount(extent, step int) int {
	return (extent + step - 1) / step
}

// cell is one grid cell with its representative color
type cell struct {
	col, row int
	color    domain.Color
}

// sampleCells walks the grid and picks a representative color per cell:
// the modal color when it covers at least half the cell, the mean
// otherwise. Mode wins on flat art; mean smooths photos.
func sampleCells(img image.Image, step int) []cell {
	b := img.Bounds()
	var cells []cell

	for y := b.Min.Y; y < b.Max.Y; y += step {
		for x := b.Min.X; x < b.Max.X; x += step {
			x1 := min(x+step, b.Max.X)
			y1 := min(y+step, b.Max.Y)
			cells = append(cells, cell{
				col:   (x - b.Min.X) / step,
				row:   (y - b.Min.Y) / step,
				color: representativeColor(img, x, y, x1, y1),
			})
		}
	}
	return cells
}

// representativeColor inspects the pixel block [x0,x1)x[y0,y1)
func representativeColor(img image.Image, x0, y0, x1, y1 int) domain.Color {
	counts := make(map[uint32]int)
	var sumR, sumG, sumB uint64
	total := 0

	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			c := domain.Color{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8)}
			counts[c.Value()]++
			sumR += uint64(c.R)
			sumG += uint64(c.G)
			sumB += uint64(c.B)
			total++
		}
	}

	var modeValue uint32
	modeCount := 0
	for value, count := range counts {
		if count > modeCount || (count == modeCount && value < modeValue) {
			modeValue = value
			modeCount = count
		}
	}

	if modeCount*2 >= total {
		return colorFromValue(modeValue)
	}
	return domain.Color{
		R: uint8(sumR / uint64(total)),
		G: uint8(sumG / uint64(total)),
		B: uint8(sumB / uint64(total)),
	}
}

func colorFromValue(v uint32) domain.Color {
	return domain.Color{
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
	}
}

// groupByColor buckets cells by color, merges horizontal runs into
// segments and orders groups by descending cell count
func groupByColor(cells []cell, srcW, srcH, canvasW, canvasH, step int) []ColorGroup {
	buckets := make(map[uint32][]cell)
	for _, c := range cells {
		buckets[c.color.Value()] = append(buckets[c.color.Value()], c)
	}

	groups := make([]ColorGroup, 0, len(buckets))
	for value, bucket := range buckets {
		color := colorFromValue(value)
		groups = append(groups, ColorGroup{
			Color:      color,
			CellCount:  len(bucket),
			Primitives: mergeRuns(bucket, color, srcW, srcH, canvasW, canvasH, step),
		})
	}

	sort.Slice(groups, func(i, j int) bool {
		if groups[i].CellCount != groups[j].CellCount {
			return groups[i].CellCount > groups[j].CellCount
		}
		return groups[i].Color.Value() < groups[j].Color.Value()
	})
	return groups
}

// mergeRuns turns a color bucket into primitives: consecutive cells on
// one row become a segment, lone cells stay points
func mergeRuns(bucket []cell, color domain.Color, srcW, srcH, canvasW, canvasH, step int) []domain.DrawingPrimitive {
	sort.Slice(bucket, func(i, j int) bool {
		if bucket[i].row != bucket[j].row {
			return bucket[i].row < bucket[j].row
		}
		return bucket[i].col < bucket[j].col
	})

	var prims []domain.DrawingPrimitive
	for i := 0; i < len(bucket); {
		start := bucket[i]
		end := start
		j := i + 1
		for j < len(bucket) && bucket[j].row == end.row && bucket[j].col == end.col+1 {
			end = bucket[j]
			j++
		}

		from := cellPoint(start, srcW, srcH, canvasW, canvasH, step)
		if start == end {
			prims = append(prims, domain.DrawingPrimitive{
				Kind:   domain.PrimitivePoint,
				Points: []domain.Point{from},
				Color:  color,
			})
		} else {
			to := cellPoint(end, srcW, srcH, canvasW, canvasH, step)
			prims = append(prims, domain.DrawingPrimitive{
				Kind:   domain.PrimitiveSegment,
				Points: []domain.Point{from, to},
				Color:  color,
			})
		}
		i = j
	}
	return prims
}

// cellPoint maps a cell's source anchor to canvas coordinates, clamped
// inside the canvas
func cellPoint(c cell, srcW, srcH, canvasW, canvasH, step int) domain.Point {
	sx := c.col * step
	sy := c.row * step
	return domain.Point{
		X: min(canvasW-1, int(math.Round(float64(sx)/float64(srcW)*float64(canvasW)))),
		Y: min(canvasH-1, int(math.Round(float64(sy)/float64(srcH)*float64(canvasH)))),
	}
}
