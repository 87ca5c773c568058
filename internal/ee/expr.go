// Package ee models computations on the remote geospatial backend as deferred
// expression graphs. Building an Image or ImageCollection only describes the
// computation; nothing touches the backend until the graph is evaluated through
// a Client call.
package ee

// Expr is one node of a computation graph. It serializes directly to the JSON
// the backend's process endpoint accepts.
type Expr struct {
	Op   string         `json:"op"`
	Args map[string]any `json:"args,omitempty"`
}

func newExpr(op string, args map[string]any) *Expr {
	return &Expr{Op: op, Args: args}
}

// Image is a deferred multi-band raster expression.
type Image struct {
	expr *Expr
}

// Number is a deferred scalar expression, typically derived from per-scene
// metadata.
type Number struct {
	expr *Expr
}

// Constant returns an image whose every pixel holds v.
func Constant(v float64) *Image {
	return &Image{expr: newExpr("constant", map[string]any{"value": v})}
}

// Scene is the placeholder image bound to each element of a collection when a
// per-scene function is mapped over it.
func Scene() *Image {
	return &Image{expr: newExpr("scene", nil)}
}

// Num returns a constant scalar expression.
func Num(v float64) *Number {
	return &Number{expr: newExpr("num", map[string]any{"value": v})}
}

func (n *Number) Subtract(o *Number) *Number {
	return &Number{expr: newExpr("num_subtract", map[string]any{"left": n.expr, "right": o.expr})}
}

// Select narrows the image to the named bands.
func (img *Image) Select(bands ...string) *Image {
	return &Image{expr: newExpr("select", map[string]any{"input": img.expr, "bands": bands})}
}

// Rename names the (single) band of the image.
func (img *Image) Rename(name string) *Image {
	return &Image{expr: newExpr("rename", map[string]any{"input": img.expr, "name": name})}
}

// AddBands appends the bands of the given images to this one.
func (img *Image) AddBands(bands ...*Image) *Image {
	exprs := make([]any, 0, len(bands))
	for _, b := range bands {
		exprs = append(exprs, b.expr)
	}
	return &Image{expr: newExpr("add_bands", map[string]any{"input": img.expr, "bands": exprs})}
}

func (img *Image) binary(op string, o *Image) *Image {
	return &Image{expr: newExpr(op, map[string]any{"left": img.expr, "right": o.expr})}
}

func (img *Image) Add(o *Image) *Image      { return img.binary("add", o) }
func (img *Image) Subtract(o *Image) *Image { return img.binary("subtract", o) }
func (img *Image) Multiply(o *Image) *Image { return img.binary("multiply", o) }
func (img *Image) Divide(o *Image) *Image   { return img.binary("divide", o) }

func (img *Image) compare(op string, v float64) *Image {
	return &Image{expr: newExpr(op, map[string]any{"input": img.expr, "value": v})}
}

// Gt returns a binary image: 1 where the pixel exceeds v, 0 elsewhere.
func (img *Image) Gt(v float64) *Image { return img.compare("gt", v) }

// Lt returns a binary image: 1 where the pixel is below v, 0 elsewhere.
func (img *Image) Lt(v float64) *Image { return img.compare("lt", v) }

// Neq returns a binary image: 1 where the pixel differs from v, 0 elsewhere.
func (img *Image) Neq(v float64) *Image { return img.compare("neq", v) }

// Not logically inverts a binary image.
func (img *Image) Not() *Image {
	return &Image{expr: newExpr("not", map[string]any{"input": img.expr})}
}

// UpdateMask hides every pixel where mask is 0; hidden pixels do not
// contribute to reductions.
func (img *Image) UpdateMask(mask *Image) *Image {
	return &Image{expr: newExpr("update_mask", map[string]any{"input": img.expr, "mask": mask.expr})}
}

// Mask returns the validity of each pixel as a binary image.
func (img *Image) Mask() *Image {
	return &Image{expr: newExpr("mask", map[string]any{"input": img.expr})}
}

// FocalMin erodes a binary image by the given radius in pixels.
func (img *Image) FocalMin(radius float64) *Image {
	return &Image{expr: newExpr("focal_min", map[string]any{"input": img.expr, "radius": radius})}
}

// FocalMax dilates a binary image by the given radius in pixels.
func (img *Image) FocalMax(radius float64) *Image {
	return &Image{expr: newExpr("focal_max", map[string]any{"input": img.expr, "radius": radius})}
}

// Reproject resamples the image to the given scale in meters.
func (img *Image) Reproject(scale float64) *Image {
	return &Image{expr: newExpr("reproject", map[string]any{"input": img.expr, "scale": scale})}
}

// DirectionalDistanceTransform computes, per pixel, the distance to the
// nearest flagged pixel along the azimuth, up to maxDistance pixels. The
// result is masked wherever no flagged pixel is found.
func (img *Image) DirectionalDistanceTransform(azimuth *Number, maxDistance float64) *Image {
	return &Image{expr: newExpr("directional_distance_transform", map[string]any{
		"input":        img.expr,
		"azimuth":      azimuth.expr,
		"max_distance": maxDistance,
	})}
}

// Clip restricts the image to the given geometry.
func (img *Image) Clip(g *Geometry) *Image {
	return &Image{expr: newExpr("clip", map[string]any{"input": img.expr, "geometry": g})}
}

// Number reads a numeric metadata property of the scene.
func (img *Image) Number(property string) *Number {
	return &Number{expr: newExpr("number_property", map[string]any{"input": img.expr, "property": property})}
}

// ImageProperty reads a metadata property holding a joined image, such as the
// paired cloud-probability product attached by a collection join.
func (img *Image) ImageProperty(property string) *Image {
	return &Image{expr: newExpr("image_property", map[string]any{"input": img.expr, "property": property})}
}
