package ee

import "time"

// ImageCollection is a deferred expression over a time-stamped scene
// collection.
type ImageCollection struct {
	expr *Expr
}

// Collection refers to a named catalog collection on the backend.
func Collection(id string) *ImageCollection {
	return &ImageCollection{expr: newExpr("collection", map[string]any{"id": id})}
}

// FilterBounds keeps scenes intersecting the geometry.
func (c *ImageCollection) FilterBounds(g *Geometry) *ImageCollection {
	return &ImageCollection{expr: newExpr("filter_bounds", map[string]any{"input": c.expr, "geometry": g})}
}

// FilterDate keeps scenes acquired in [start, end).
func (c *ImageCollection) FilterDate(start, end time.Time) *ImageCollection {
	return &ImageCollection{expr: newExpr("filter_date", map[string]any{
		"input": c.expr,
		"start": start.Format("2006-01-02"),
		"end":   end.Format("2006-01-02"),
	})}
}

// Filter keeps scenes matching the metadata predicate.
func (c *ImageCollection) Filter(f Filter) *ImageCollection {
	return &ImageCollection{expr: newExpr("filter", map[string]any{"input": c.expr, "predicate": f.expr})}
}

// Select narrows every scene to the named bands.
func (c *ImageCollection) Select(bands ...string) *ImageCollection {
	return &ImageCollection{expr: newExpr("collection_select", map[string]any{"input": c.expr, "bands": bands})}
}

// Map applies fn to every scene. fn receives a placeholder scene image and
// must return the derived image; the body it builds is recorded once in the
// graph and applied per scene by the backend.
func (c *ImageCollection) Map(fn func(*Image) *Image) *ImageCollection {
	body := fn(Scene())
	return &ImageCollection{expr: newExpr("map", map[string]any{"input": c.expr, "body": body.expr})}
}

// Median reduces the collection to one image by per-pixel median. Pixels
// hidden by a scene's mask do not contribute to that scene's term.
func (c *ImageCollection) Median() *Image {
	return &Image{expr: newExpr("median", map[string]any{"input": c.expr})}
}

// Count reduces the collection to one image holding the number of unmasked
// observations per pixel.
func (c *ImageCollection) Count() *Image {
	return &Image{expr: newExpr("count", map[string]any{"input": c.expr})}
}

// Filter is a metadata predicate over scenes.
type Filter struct {
	expr *Expr
}

func metaFilter(op, name string, value any) Filter {
	return Filter{expr: newExpr(op, map[string]any{"name": name, "value": value})}
}

// FilterEq matches scenes whose property equals value.
func FilterEq(name string, value any) Filter { return metaFilter("eq", name, value) }

// FilterLte matches scenes whose property is at most value.
func FilterLte(name string, value any) Filter { return metaFilter("lte", name, value) }

// FilterListContains matches scenes whose list-valued property contains value.
func FilterListContains(name string, value any) Filter {
	return metaFilter("list_contains", name, value)
}

// JoinSaveFirst joins two collections on equality of the given metadata
// fields, attaching the first matching secondary scene to each primary scene
// under the named property.
func JoinSaveFirst(primary, secondary *ImageCollection, property, leftField, rightField string) *ImageCollection {
	return &ImageCollection{expr: newExpr("join_save_first", map[string]any{
		"primary":     primary.expr,
		"secondary":   secondary.expr,
		"property":    property,
		"left_field":  leftField,
		"right_field": rightField,
	})}
}
