package draw

// quadVertices is the full-screen quad in clip space, two triangles of three
// components each.
var quadVertices = [...]float32{
	-1, 1, 0,
	1, 1, 0,
	1, -1, 0,
	1, -1, 0,
	-1, 1, 0,
	-1, -1, 0,
}

const (
	quadComponents  = 3
	quadVertexCount = int32(len(quadVertices)) / quadComponents
)
