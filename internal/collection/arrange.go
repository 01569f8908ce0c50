package collection

// KV is a keyed tuple: the shape every arranged collection and every join
// input/output is built from.
type KV[K comparable, V any] struct {
	Key K
	Val V
}

// Arrangement is a shared, read-only, keyed index built once from a
// collection and consumed by possibly many joins. It is the Go stand-in
// for arrange_by_key / arrange_by_self: a sorted (here, hashed) key→value
// trace that multiple joiners can share without rebuilding it.
type Arrangement[K comparable, V any] struct {
	index map[K][]entry[V]
}

type entry[V any] struct {
	val  V
	mult int64
}

// ArrangeByKey builds a shared index from a collection of KV pairs, keyed
// by Key.
func ArrangeByKey[K comparable, V comparable](c Collection[KV[K, V]]) *Arrangement[K, V] {
	a := &Arrangement[K, V]{index: make(map[K][]entry[V])}
	for kv, mult := range c {
		a.index[kv.Key] = append(a.index[kv.Key], entry[V]{val: kv.Val, mult: mult})
	}
	return a
}

// ArrangeBySelf builds a shared index from a plain collection, keyed by
// the element itself, with an empty value. Useful for anti-joins and
// existence checks (e.g. "is this cell ever a tail").
func ArrangeBySelf[K comparable](c Collection[K]) *Arrangement[K, struct{}] {
	a := &Arrangement[K, struct{}]{index: make(map[K][]entry[struct{}])}
	for k, mult := range c {
		a.index[k] = append(a.index[k], entry[struct{}]{mult: mult})
	}
	return a
}

// Has reports whether the arrangement contains any entry for k.
func (a *Arrangement[K, V]) Has(k K) bool {
	_, ok := a.index[k]
	return ok
}

// Get returns the values arranged under k.
func (a *Arrangement[K, V]) Get(k K) []V {
	entries := a.index[k]
	if len(entries) == 0 {
		return nil
	}
	out := make([]V, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.val)
	}
	return out
}

// JoinCore performs the keyed join against a shared arrangement: for every
// key k present in both c and the arrangement, f is invoked once per
// (a, b) pair found under k; multiplicities multiply. A false second
// result from f drops that pair.
func JoinCore[K comparable, A, B comparable, O comparable](c Collection[KV[K, A]], arr *Arrangement[K, B], f func(k K, a A, b B) (O, bool)) Collection[O] {
	out := make(Collection[O])
	for kv, multA := range c {
		entries := arr.index[kv.Key]
		for _, e := range entries {
			o, ok := f(kv.Key, kv.Val, e.val)
			if !ok {
				continue
			}
			out.Add(o, multA*e.mult)
		}
	}
	return out
}

// AntiJoin keeps only elements of c whose key is absent from the
// arrangement — the anti-join used by list expansion to find core heads
// (cells that are never another cell's tail).
func AntiJoin[K comparable, A comparable, V any](c Collection[KV[K, A]], arr *Arrangement[K, V]) Collection[KV[K, A]] {
	out := make(Collection[KV[K, A]], len(c))
	for kv, mult := range c {
		if arr.Has(kv.Key) {
			continue
		}
		out[kv] = mult
	}
	return out
}
