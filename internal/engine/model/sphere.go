package model

import gomath "math"

// Sphere builds a UV sphere centred at the origin. Normals point outward and
// UVs run u: 0..1 around the equator, v: 1 at the north pole to 0 at the south.
// Segment counts are clamped to the minimum that still forms a closed solid.
func Sphere(radius float32, widthSegments, heightSegments int) *Mesh {
	widthSegments = max(3, widthSegments)
	heightSegments = max(2, heightSegments)

	m := &Mesh{Bounds: EmptyBounds()}
	grid := make([][]uint32, heightSegments+1)

	for iy := 0; iy <= heightSegments; iy++ {
		v := float64(iy) / float64(heightSegments)

		// Pole rows get their UVs shifted half a segment so each pole
		// triangle samples the middle of its wedge.
		uOffset := 0.0
		switch iy {
		case 0:
			uOffset = 0.5 / float64(widthSegments)
		case heightSegments:
			uOffset = -0.5 / float64(widthSegments)
		}

		row := make([]uint32, widthSegments+1)
		for ix := 0; ix <= widthSegments; ix++ {
			u := float64(ix) / float64(widthSegments)
			phi := u * 2 * gomath.Pi
			theta := v * gomath.Pi

			x := -gomath.Cos(phi) * gomath.Sin(theta)
			y := gomath.Cos(theta)
			z := gomath.Sin(phi) * gomath.Sin(theta)

			pos := [3]float32{radius * float32(x), radius * float32(y), radius * float32(z)}
			m.Vertices = append(m.Vertices, Vertex{
				Position: pos,
				Normal:   [3]float32{float32(x), float32(y), float32(z)},
				TexCoord: [2]float32{float32(u + uOffset), float32(1 - v)},
			})
			m.Bounds.Extend(pos)
			row[ix] = uint32(len(m.Vertices) - 1)
		}
		grid[iy] = row
	}

	for iy := 0; iy < heightSegments; iy++ {
		for ix := 0; ix < widthSegments; ix++ {
			a := grid[iy][ix+1]
			b := grid[iy][ix]
			c := grid[iy+1][ix]
			d := grid[iy+1][ix+1]

			if iy != 0 {
				m.Indices = append(m.Indices, a, b, d)
			}
			if iy != heightSegments-1 {
				m.Indices = append(m.Indices, b, c, d)
			}
		}
	}

	return m
}

// SphereUV returns the texture coordinate Sphere assigns to the surface point
// with unit normal n.
func SphereUV(n [3]float32) [2]float32 {
	phi := gomath.Atan2(float64(n[2]), -float64(n[0]))
	if phi < 0 {
		phi += 2 * gomath.Pi
	}
	y := gomath.Max(-1, gomath.Min(1, float64(n[1])))
	theta := gomath.Acos(y)
	return [2]float32{float32(phi / (2 * gomath.Pi)), float32(1 - theta/gomath.Pi)}
}
