package components

// DepthMap holds one normalized depth (or saliency) value per pixel.
// Values are expected in [0, 1]; larger means nearer / more salient.
type DepthMap struct {
	Width, Height int
	Values        []float64 // Row-major, len == Width*Height
}

// NewDepthMap allocates a zeroed depth map.
func NewDepthMap(w, h int) *DepthMap {
	return &DepthMap{
		Width:  w,
		Height: h,
		Values: make([]float64, w*h),
	}
}

// At returns the depth at (x, y). Out-of-range coordinates and a nil map
// both read as 0.
func (d *DepthMap) At(x, y int) float64 {
	if d == nil || x < 0 || y < 0 || x >= d.Width || y >= d.Height {
		return 0
	}
	return d.Values[y*d.Width+x]
}

// Set stores v at (x, y). Out-of-range writes are ignored.
func (d *DepthMap) Set(x, y int, v float64) {
	if d == nil || x < 0 || y < 0 || x >= d.Width || y >= d.Height {
		return
	}
	d.Values[y*d.Width+x] = v
}

// Matches reports whether the map covers a w×h raster exactly.
func (d *DepthMap) Matches(w, h int) bool {
	return d != nil && d.Width == w && d.Height == h && len(d.Values) == w*h
}
