package ee

import "fmt"

// Pixel is a synthetic single-pixel sample: band values plus scene metadata,
// with joined auxiliary products flattened into the band map.
type Pixel struct {
	Bands      map[string]float64
	Properties map[string]float64
}

type probeResult struct {
	value  float64
	masked bool
}

// Probe evaluates the per-pixel algebra subset of an image expression against
// one synthetic pixel. band selects which band of a multi-band expression to
// evaluate; pass "" for single-band expressions. It returns the value and
// whether the pixel survived masking.
//
// The probe assumes a spatially uniform neighborhood: focal and reprojection
// operators pass through, and the directional distance transform resolves to
// "defined wherever the source flag is set". Collection reductions are not
// locally evaluable.
func Probe(img *Image, band string, px Pixel) (float64, bool, error) {
	r, err := evalBand(img.expr, band, px)
	if err != nil {
		return 0, false, err
	}
	return r.value, !r.masked, nil
}

func argExpr(e *Expr, key string) (*Expr, error) {
	sub, ok := e.Args[key].(*Expr)
	if !ok {
		return nil, fmt.Errorf("op %q: missing %s argument", e.Op, key)
	}
	return sub, nil
}

func argFloat(e *Expr, key string) (float64, error) {
	v, ok := e.Args[key].(float64)
	if !ok {
		return 0, fmt.Errorf("op %q: missing %s argument", e.Op, key)
	}
	return v, nil
}

// bandName reports the name an image expression would carry as a band, if
// determinable without evaluation.
func bandName(e *Expr) string {
	switch e.Op {
	case "rename":
		name, _ := e.Args["name"].(string)
		return name
	case "select":
		bands, _ := e.Args["bands"].([]string)
		if len(bands) == 1 {
			return bands[0]
		}
	}
	return ""
}

func evalBand(e *Expr, band string, px Pixel) (probeResult, error) {
	switch e.Op {
	case "constant":
		v, err := argFloat(e, "value")
		return probeResult{value: v}, err

	case "scene", "median", "count", "image_property":
		// Band values of source-like expressions come straight from the
		// sample.
		if band == "" {
			return probeResult{}, fmt.Errorf("op %q: band name required", e.Op)
		}
		v, ok := px.Bands[band]
		if !ok {
			return probeResult{}, fmt.Errorf("sample has no band %q", band)
		}
		return probeResult{value: v}, nil

	case "select":
		input, err := argExpr(e, "input")
		if err != nil {
			return probeResult{}, err
		}
		bands, _ := e.Args["bands"].([]string)
		if band == "" {
			if len(bands) != 1 {
				return probeResult{}, fmt.Errorf("select of %d bands needs an explicit band", len(bands))
			}
			return evalBand(input, bands[0], px)
		}
		for _, b := range bands {
			if b == band {
				return evalBand(input, band, px)
			}
		}
		return probeResult{}, fmt.Errorf("band %q not in selection %v", band, bands)

	case "rename":
		input, err := argExpr(e, "input")
		if err != nil {
			return probeResult{}, err
		}
		return evalBand(input, "", px)

	case "add_bands":
		input, err := argExpr(e, "input")
		if err != nil {
			return probeResult{}, err
		}
		if band == "" {
			return probeResult{}, fmt.Errorf("add_bands needs an explicit band")
		}
		added, _ := e.Args["bands"].([]any)
		for _, a := range added {
			sub, ok := a.(*Expr)
			if !ok {
				continue
			}
			if bandName(sub) == band {
				return evalBand(sub, "", px)
			}
		}
		return evalBand(input, band, px)

	case "add", "subtract", "multiply", "divide":
		left, err := argExpr(e, "left")
		if err != nil {
			return probeResult{}, err
		}
		right, err := argExpr(e, "right")
		if err != nil {
			return probeResult{}, err
		}
		l, err := evalBand(left, band, px)
		if err != nil {
			return probeResult{}, err
		}
		r, err := evalBand(right, band, px)
		if err != nil {
			return probeResult{}, err
		}
		out := probeResult{masked: l.masked || r.masked}
		switch e.Op {
		case "add":
			out.value = l.value + r.value
		case "subtract":
			out.value = l.value - r.value
		case "multiply":
			out.value = l.value * r.value
		case "divide":
			if r.value == 0 {
				out.value = 0
			} else {
				out.value = l.value / r.value
			}
		}
		return out, nil

	case "gt", "lt", "neq":
		input, err := argExpr(e, "input")
		if err != nil {
			return probeResult{}, err
		}
		threshold, err := argFloat(e, "value")
		if err != nil {
			return probeResult{}, err
		}
		in, err := evalBand(input, band, px)
		if err != nil {
			return probeResult{}, err
		}
		hit := false
		switch e.Op {
		case "gt":
			hit = in.value > threshold
		case "lt":
			hit = in.value < threshold
		case "neq":
			hit = in.value != threshold
		}
		out := probeResult{masked: in.masked}
		if hit {
			out.value = 1
		}
		return out, nil

	case "not":
		input, err := argExpr(e, "input")
		if err != nil {
			return probeResult{}, err
		}
		in, err := evalBand(input, band, px)
		if err != nil {
			return probeResult{}, err
		}
		out := probeResult{masked: in.masked}
		if in.value == 0 {
			out.value = 1
		}
		return out, nil

	case "update_mask":
		input, err := argExpr(e, "input")
		if err != nil {
			return probeResult{}, err
		}
		mask, err := argExpr(e, "mask")
		if err != nil {
			return probeResult{}, err
		}
		in, err := evalBand(input, band, px)
		if err != nil {
			return probeResult{}, err
		}
		m, err := evalBand(mask, "", px)
		if err != nil {
			return probeResult{}, err
		}
		in.masked = in.masked || m.masked || m.value == 0
		return in, nil

	case "mask":
		input, err := argExpr(e, "input")
		if err != nil {
			return probeResult{}, err
		}
		in, err := evalBand(input, band, px)
		if err != nil {
			return probeResult{}, err
		}
		if in.masked {
			return probeResult{value: 0}, nil
		}
		return probeResult{value: 1}, nil

	case "directional_distance_transform":
		input, err := argExpr(e, "input")
		if err != nil {
			return probeResult{}, err
		}
		flag, err := evalBand(input, "", px)
		if err != nil {
			return probeResult{}, err
		}
		// The azimuth does not change a uniform field, but its metadata
		// reads must still resolve.
		if azimuth, ok := e.Args["azimuth"].(*Expr); ok {
			if _, err := evalBand(azimuth, "", px); err != nil {
				return probeResult{}, err
			}
		}
		// Uniform-field reading: a set flag projects onto itself, an
		// unset flag yields no distance at all.
		return probeResult{masked: flag.masked || flag.value == 0}, nil

	case "num":
		v, err := argFloat(e, "value")
		return probeResult{value: v}, err

	case "num_subtract":
		left, err := argExpr(e, "left")
		if err != nil {
			return probeResult{}, err
		}
		right, err := argExpr(e, "right")
		if err != nil {
			return probeResult{}, err
		}
		l, err := evalBand(left, "", px)
		if err != nil {
			return probeResult{}, err
		}
		r, err := evalBand(right, "", px)
		if err != nil {
			return probeResult{}, err
		}
		return probeResult{value: l.value - r.value, masked: l.masked || r.masked}, nil

	case "focal_min", "focal_max", "reproject", "clip":
		input, err := argExpr(e, "input")
		if err != nil {
			return probeResult{}, err
		}
		return evalBand(input, band, px)

	case "number_property":
		prop, _ := e.Args["property"].(string)
		v, ok := px.Properties[prop]
		if !ok {
			return probeResult{}, fmt.Errorf("sample has no property %q", prop)
		}
		return probeResult{value: v}, nil
	}

	return probeResult{}, fmt.Errorf("op %q is not locally evaluable", e.Op)
}
