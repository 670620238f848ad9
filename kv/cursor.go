package kv

// Pair is a struct for key value pairs.
type Pair struct {
	Key   []byte
	Value []byte
}

// staticCursor implements the Cursor interface for a slice of
// static key value pairs.
type staticCursor struct {
	idx   int
	pairs []Pair
}

// NewStaticCursor returns an instance of a static cursor. Pairs are
// expected to already be in ascending key order.
func NewStaticCursor(pairs []Pair) Cursor {
	return &staticCursor{
		pairs: pairs,
	}
}

func (c *staticCursor) getValueAtIndex() ([]byte, []byte) {
	if c.idx < 0 || c.idx >= len(c.pairs) {
		return nil, nil
	}

	pair := c.pairs[c.idx]
	return pair.Key, pair.Value
}

// First retrieves the first element in the cursor.
func (c *staticCursor) First() ([]byte, []byte) {
	c.idx = 0
	return c.getValueAtIndex()
}

// Next retrieves the next entry in the cursor.
func (c *staticCursor) Next() ([]byte, []byte) {
	c.idx++
	return c.getValueAtIndex()
}
