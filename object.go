package jso

import "sort"

// objectEntry is one slot of the open-addressed table.
type objectEntry struct {
	used  bool
	key   *String
	hash  uint32
	val   Value
	order int // insertion sequence number, used to iterate in insertion order
}

// Object is an open-addressed hash table with linear probing (spec.md §3).
// Load factor is capped at 0.75; capacity grows 0→8 then doubles on breach.
// Iteration order is insertion order, maintained independently of the
// linear-probing slot layout via a per-entry monotonically increasing
// sequence number (spec.md §9 "Hash-table insertion order").
type Object struct {
	entries  []objectEntry
	count    int
	nextOrd  int
	refcount int32
}

// NewObject returns an empty Object with refcount 1.
func NewObject() *Object {
	return &Object{refcount: 1}
}

// Retain increments the refcount and returns the receiver.
func (o *Object) Retain() *Object {
	if o == nil {
		return nil
	}
	o.refcount++
	return o
}

// Release decrements the refcount.
func (o *Object) Release() {
	if o == nil {
		return
	}
	o.refcount--
}

// Len returns the number of key/value pairs.
func (o *Object) Len() int { return o.count }

func (o *Object) grow() {
	newCap := 8
	if len(o.entries) > 0 {
		newCap = len(o.entries) * 2
	}
	old := o.entries
	o.entries = make([]objectEntry, newCap)
	for _, e := range old {
		if e.used {
			o.insertRaw(e.key, e.hash, e.val, e.order)
		}
	}
}

func (o *Object) insertRaw(key *String, hash uint32, val Value, order int) {
	mask := uint32(len(o.entries) - 1)
	idx := hash & mask
	for {
		e := &o.entries[idx]
		if !e.used {
			*e = objectEntry{used: true, key: key, hash: hash, val: val, order: order}
			return
		}
		if e.hash == hash && e.key.Equal(key) {
			e.val = val
			return
		}
		idx = (idx + 1) & mask
	}
}

func (o *Object) loadFactor() float64 {
	if len(o.entries) == 0 {
		return 1
	}
	return float64(o.count+1) / float64(len(o.entries))
}

// Set inserts or overwrites the value for key, preserving the original
// insertion position on overwrite.
func (o *Object) Set(key string, v Value) {
	o.SetStr(NewStr(key), v)
}

// SetStr is Set taking an already-built String key, avoiding a fresh
// allocation when the key already exists as a String (e.g. parser hand-off).
func (o *Object) SetStr(key *String, v Value) {
	if len(o.entries) == 0 || o.loadFactor() > 0.75 {
		o.grow()
	}
	hash := key.Hash()
	mask := uint32(len(o.entries) - 1)
	idx := hash & mask
	for {
		e := &o.entries[idx]
		if !e.used {
			*e = objectEntry{used: true, key: key, hash: hash, val: v, order: o.nextOrd}
			o.nextOrd++
			o.count++
			return
		}
		if e.hash == hash && e.key.Equal(key) {
			e.val = v
			return
		}
		idx = (idx + 1) & mask
	}
}

// Get looks up key; ok is false on a miss.
func (o *Object) Get(key string) (Value, bool) {
	if len(o.entries) == 0 {
		return Value{}, false
	}
	k := NewStr(key)
	hash := k.Hash()
	mask := uint32(len(o.entries) - 1)
	idx := hash & mask
	for probes := 0; probes < len(o.entries); probes++ {
		e := &o.entries[idx]
		if !e.used {
			return Value{}, false
		}
		if e.hash == hash && e.key.Equal(k) {
			return e.val, true
		}
		idx = (idx + 1) & mask
	}
	return Value{}, false
}

// Has reports whether key is present.
func (o *Object) Has(key string) bool {
	_, ok := o.Get(key)
	return ok
}

type orderedEntry struct {
	key   string
	val   Value
	order int
}

func (o *Object) orderedEntries() []orderedEntry {
	tmp := make([]orderedEntry, 0, o.count)
	for _, e := range o.entries {
		if e.used {
			tmp = append(tmp, orderedEntry{e.key.Go(), e.val, e.order})
		}
	}
	sort.Slice(tmp, func(i, j int) bool { return tmp[i].order < tmp[j].order })
	return tmp
}

// Keys returns the keys in insertion order.
func (o *Object) Keys() []string {
	tmp := o.orderedEntries()
	out := make([]string, len(tmp))
	for i, x := range tmp {
		out[i] = x.key
	}
	return out
}

// Each calls fn for every key/value pair in insertion order, stopping early
// if fn returns false.
func (o *Object) Each(fn func(key string, v Value) bool) {
	for _, x := range o.orderedEntries() {
		if !fn(x.key, x.val) {
			return
		}
	}
}
