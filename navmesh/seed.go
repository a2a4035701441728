package navmesh

// NewMeshWithBounds builds a Mesh whose initial triangulation is a single
// CCW triangle covering the given bounding box, the standard CDT
// bootstrap (a super-triangle), so InsertPoint/InsertEdge have a
// containing face to start from.
func NewMeshWithBounds(minX, minY, maxX, maxY float64, maxVertices, maxHalfEdges, maxFaces int) *Mesh {
	m := NewMesh(maxVertices, maxHalfEdges, maxFaces)
	m.minX, m.minY, m.maxX, m.maxY = minX, minY, maxX, maxY
	m.buildSuperTriangle()
	return m
}
