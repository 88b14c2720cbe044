package host

import (
	"encoding/binary"
	"math"
)

// QuadVertexCount is the number of vertices of the full-screen quad,
// drawn as a triangle strip.
const QuadVertexCount = 4

// QuadPositions are the clip-space positions of the full-screen quad,
// four float32 (x, y, z, w) per vertex, uploaded at VertexBufferPosition.
var QuadPositions = [QuadVertexCount * 4]float32{
	-1, -1, 0, 1,
	1, -1, 0, 1,
	-1, 1, 0, 1,
	1, 1, 0, 1,
}

// QuadTexCoords are the texture coordinates of the full-screen quad,
// two float32 (u, v) per vertex with v pointing down, uploaded at
// VertexBufferTextureCoordinate.
var QuadTexCoords = [QuadVertexCount * 2]float32{
	0, 1,
	1, 1,
	0, 0,
	1, 0,
}

// float32Bytes encodes vs as little-endian bytes.
func float32Bytes(vs []float32) []byte {
	out := make([]byte, len(vs)*4)
	for i, v := range vs {
		binary.LittleEndian.PutUint32(out[i*4:], math.Float32bits(v))
	}
	return out
}
