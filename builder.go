package jso

// ArrayBuilder accumulates elements into a fresh Array one at a time,
// mirroring the incremental construction the parser itself performs
// (spec.md §4.3 "Builder"), for callers assembling a Value outside of
// parsing — tests, CLI flag handling, default-value synthesis.
type ArrayBuilder struct {
	arr *Array
}

// NewArrayBuilder returns a builder wrapping a fresh empty Array.
func NewArrayBuilder() *ArrayBuilder {
	return &ArrayBuilder{arr: NewArray()}
}

// Push appends v and returns the receiver, so calls can be chained.
func (b *ArrayBuilder) Push(v Value) *ArrayBuilder {
	b.arr.Append(v)
	return b
}

// Build returns the finished value.
func (b *ArrayBuilder) Build() Value { return Arr(b.arr) }

// ObjectBuilder accumulates key/value pairs into a fresh Object.
type ObjectBuilder struct {
	obj *Object
}

// NewObjectBuilder returns a builder wrapping a fresh empty Object.
func NewObjectBuilder() *ObjectBuilder {
	return &ObjectBuilder{obj: NewObject()}
}

// Set stores v under key, overwriting any existing value for key while
// preserving its original insertion position, and returns the receiver.
func (b *ObjectBuilder) Set(key string, v Value) *ObjectBuilder {
	b.obj.Set(key, v)
	return b
}

// Build returns the finished value.
func (b *ObjectBuilder) Build() Value { return Obj(b.obj) }
