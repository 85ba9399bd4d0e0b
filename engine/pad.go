package engine

// reflectIndex maps a padded-grid coordinate back into [0, n) by reflecting
// around the grid edges without repeating the border sample. Valid for
// offsets up to n-1 past either edge.
func reflectIndex(i, n int) int {
	if i < 0 {
		return -i
	}
	if i > n-1 {
		return 2*(n-1) - i
	}
	return i
}

// padReflect expands one h×w channel plane by pad cells of reflective
// extension on every side, returning the flattened padded plane.
func padReflect(plane []float64, h, w, pad int) []float64 {
	ph, pw := h+2*pad, w+2*pad
	out := make([]float64, ph*pw)
	for y := 0; y < ph; y++ {
		sy := reflectIndex(y-pad, h)
		row := plane[sy*w : sy*w+w]
		for x := 0; x < pw; x++ {
			out[y*pw+x] = row[reflectIndex(x-pad, w)]
		}
	}
	return out
}

// unpad extracts the original h×w plane from the center of a padded plane.
func unpad(padded []float64, h, w, pad int) []float64 {
	pw := w + 2*pad
	out := make([]float64, h*w)
	for y := 0; y < h; y++ {
		src := (y+pad)*pw + pad
		copy(out[y*w:y*w+w], padded[src:src+w])
	}
	return out
}
