package render

const vertexCacheSize = 16

// cacheInfo records which source index a cache slot holds.
type cacheInfo struct {
	index uint32
	valid bool
	hit   bool
}

// scanEntry is one distinct index found while scanning ahead.
type scanEntry struct {
	index uint32
	slot  int // -1 until resident
}

// vertexCache memoizes transformed vertices for the primitives of one draw
// call. It works in windows: before the next primitive is consumed it scans
// ahead for up to vertexCacheSize distinct indices, keeps the slots already
// holding one of them and transforms only the rest into slots nothing in the
// window needs.
type vertexCache struct {
	pairs [vertexCacheSize]VertexPair
	info  [vertexCacheSize]cacheInfo
	scan  [vertexCacheSize]scanEntry

	fill func(index uint32, dst *VertexPair)

	ib           IndexBuffer
	pt           PrimitiveType
	indexCount   int
	indicesIndex int // end of the scanned window
	indicesRun   int // first index of the next primitive
	prim         int // primitives handed out so far
	bypass       bool
}

func newVertexCache(fill func(index uint32, dst *VertexPair)) *vertexCache {
	return &vertexCache{fill: fill}
}

// reset prepares the cache for a draw call and drops all residents.
func (c *vertexCache) reset(ib IndexBuffer, pt PrimitiveType, primitives int, bypass bool) {
	c.ib = ib
	c.pt = pt
	c.indexCount = pt.indexCount(primitives)
	c.indicesIndex = 0
	c.indicesRun = 0
	c.prim = 0
	c.bypass = bypass || pt.vertices() < 3
	for i := range c.info {
		c.info[i] = cacheInfo{}
	}
}

func (c *vertexCache) index(i int) uint32 {
	if c.ib == nil {
		return uint32(i)
	}
	return c.ib.At(i)
}

// positions returns the index buffer positions of the current primitive's
// vertices.
func (c *vertexCache) positions() (pos [3]int) {
	run := c.indicesRun
	switch c.pt {
	case TriangleFan:
		pos = [3]int{0, run + 1, run + 2}
	case TriangleStrip:
		pos = [3]int{run, run + 1, run + 2}
		if c.prim&1 == 1 {
			// Odd strip triangles keep the winding of the first.
			pos[1], pos[2] = pos[2], pos[1]
		}
	default:
		pos = [3]int{run, run + 1, run + 2}
	}
	return pos
}

// next returns the vertex pairs and source indices of the next primitive.
// Only the first pt.vertices() entries are meaningful.
func (c *vertexCache) next() (face [3]*VertexPair, idx [3]uint32) {
	n := c.pt.vertices()
	pos := c.positions()

	if c.bypass {
		for i := range n {
			idx[i] = c.index(pos[i])
			c.fill(idx[i], &c.pairs[i])
			c.info[i] = cacheInfo{index: idx[i], valid: true}
			face[i] = &c.pairs[i]
		}
		c.advance()
		return face, idx
	}

	if c.indicesIndex-c.indicesRun < n && c.indicesIndex < c.indexCount {
		c.refill()
	}
	for i := range n {
		idx[i] = c.index(pos[i])
		face[i] = c.lookup(idx[i])
	}
	c.advance()
	return face, idx
}

func (c *vertexCache) advance() {
	c.indicesRun += c.pt.pitch()
	c.prim++
}

// refill rescans from the start of the next primitive and makes every
// distinct index of the window resident.
func (c *vertexCache) refill() {
	c.indicesIndex = c.indicesRun

	n := 0
	if c.pt == TriangleFan {
		// Every fan triangle references index 0.
		n = c.addScan(n, c.index(0))
	}
	for c.indicesIndex < c.indexCount && n < vertexCacheSize {
		n = c.addScan(n, c.index(c.indicesIndex))
		c.indicesIndex++
	}

	for i := range c.info {
		c.info[i].hit = false
	}

	// Mark residents the window still needs.
	for i := range n {
		for s := range c.info {
			if c.info[s].valid && c.info[s].index == c.scan[i].index {
				c.scan[i].slot = s
				c.info[s].hit = true
				break
			}
		}
	}

	// Transform misses into slots the window does not need.
	for i := range n {
		if c.scan[i].slot >= 0 {
			continue
		}
		for s := range c.info {
			if c.info[s].hit {
				continue
			}
			c.fill(c.scan[i].index, &c.pairs[s])
			c.info[s] = cacheInfo{index: c.scan[i].index, valid: true, hit: true}
			c.scan[i].slot = s
			break
		}
	}
}

func (c *vertexCache) addScan(n int, index uint32) int {
	for i := range n {
		if c.scan[i].index == index {
			return n
		}
	}
	c.scan[n] = scanEntry{index: index, slot: -1}
	return n + 1
}

func (c *vertexCache) lookup(index uint32) *VertexPair {
	for s := range c.info {
		if c.info[s].valid && c.info[s].index == index {
			return &c.pairs[s]
		}
	}
	// Unreachable while the window covers the current primitive.
	c.fill(index, &c.pairs[0])
	c.info[0] = cacheInfo{index: index, valid: true}
	return &c.pairs[0]
}
