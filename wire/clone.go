package wire

// Cloners build deep copy functions for generated Clone methods. A nil
// element function copies elements by value.

func SliceCloner[T any](elem func(T) T) func([]T) []T {
	return func(s []T) []T {
		if s == nil {
			return nil
		}
		out := make([]T, len(s))
		if elem == nil {
			copy(out, s)
			return out
		}
		for i, v := range s {
			out[i] = elem(v)
		}
		return out
	}
}

func PointerCloner[T any](elem func(T) T) func(*T) *T {
	return func(p *T) *T {
		if p == nil {
			return nil
		}
		v := *p
		if elem != nil {
			v = elem(v)
		}
		return &v
	}
}

func ResultCloner[T, E any](ok func(T) T, err func(E) E) func(Result[T, E]) Result[T, E] {
	return func(r Result[T, E]) Result[T, E] {
		if !r.IsErr && ok != nil {
			r.Ok = ok(r.Ok)
		}
		if r.IsErr && err != nil {
			r.Err = err(r.Err)
		}
		return r
	}
}
