package model

import (
	glm "github.com/go-gl/mathgl/mgl32"
)

// Triangle returns the triangle every example starts from
func Triangle() []Vertex {
	return []Vertex{
		{Pos: glm.Vec3{-0.5, 0.5, 0}, Color: glm.Vec4{1, 0, 0, 1}, UV: glm.Vec2{0, 1}},
		{Pos: glm.Vec3{0.5, 0.5, 0}, Color: glm.Vec4{0, 1, 0, 1}, UV: glm.Vec2{1, 1}},
		{Pos: glm.Vec3{0, -0.5, 0}, Color: glm.Vec4{0, 0, 1, 1}, UV: glm.Vec2{0.5, 0}},
	}
}

// Quad returns two triangles covering clip space, used to blit
// textures
func Quad() []Vertex {
	white := glm.Vec4{1, 1, 1, 1}
	bl := Vertex{Pos: glm.Vec3{-1, -1, 0}, Color: white, UV: glm.Vec2{0, 0}}
	br := Vertex{Pos: glm.Vec3{1, -1, 0}, Color: white, UV: glm.Vec2{1, 0}}
	tr := Vertex{Pos: glm.Vec3{1, 1, 0}, Color: white, UV: glm.Vec2{1, 1}}
	tl := Vertex{Pos: glm.Vec3{-1, 1, 0}, Color: white, UV: glm.Vec2{0, 1}}
	return []Vertex{bl, br, tr, tr, tl, bl}
}

var cubeFaces = []struct {
	normal glm.Vec3
	up     glm.Vec3
	color  glm.Vec4
}{
	{glm.Vec3{0, 0, 1}, glm.Vec3{0, 1, 0}, glm.Vec4{1, 0, 0, 1}},
	{glm.Vec3{0, 0, -1}, glm.Vec3{0, 1, 0}, glm.Vec4{0, 1, 0, 1}},
	{glm.Vec3{1, 0, 0}, glm.Vec3{0, 1, 0}, glm.Vec4{0, 0, 1, 1}},
	{glm.Vec3{-1, 0, 0}, glm.Vec3{0, 1, 0}, glm.Vec4{1, 1, 0, 1}},
	{glm.Vec3{0, 1, 0}, glm.Vec3{0, 0, -1}, glm.Vec4{0, 1, 1, 1}},
	{glm.Vec3{0, -1, 0}, glm.Vec3{0, 0, 1}, glm.Vec4{1, 0, 1, 1}},
}

// Cube returns a unit cube centred on the origin, one color per face,
// wound counter-clockwise when seen from outside
func Cube() []Vertex {
	vertices := make([]Vertex, 0, len(cubeFaces)*6)
	for _, face := range cubeFaces {
		right := face.up.Cross(face.normal)
		center := face.normal.Mul(0.5)
		corner := func(x, y float32) Vertex {
			pos := center.Add(right.Mul(x * 0.5)).Add(face.up.Mul(y * 0.5))
			return Vertex{Pos: pos, Color: face.color, UV: glm.Vec2{(x + 1) / 2, (y + 1) / 2}}
		}
		bl, br, tr, tl := corner(-1, -1), corner(1, -1), corner(1, 1), corner(-1, 1)
		vertices = append(vertices, bl, br, tr, tr, tl, bl)
	}
	return vertices
}
