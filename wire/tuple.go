package wire

// Tuples encode their elements in order with no count prefix.

// Tuple2 holds 2 positional values.
type Tuple2[A, B any] struct {
	F0 A
	F1 B
}

func Tuple2Writer[A, B any](w0 func(*Writer, A), w1 func(*Writer, B)) func(*Writer, Tuple2[A, B]) {
	return func(w *Writer, v Tuple2[A, B]) {
		w0(w, v.F0)
		w1(w, v.F1)
	}
}

func Tuple2Reader[A, B any](r0 func(*Reader) A, r1 func(*Reader) B) func(*Reader) Tuple2[A, B] {
	return func(r *Reader) Tuple2[A, B] {
		var v Tuple2[A, B]
		v.F0 = r0(r)
		v.F1 = r1(r)
		return v
	}
}

// Tuple3 holds 3 positional values.
type Tuple3[A, B, C any] struct {
	F0 A
	F1 B
	F2 C
}

func Tuple3Writer[A, B, C any](w0 func(*Writer, A), w1 func(*Writer, B), w2 func(*Writer, C)) func(*Writer, Tuple3[A, B, C]) {
	return func(w *Writer, v Tuple3[A, B, C]) {
		w0(w, v.F0)
		w1(w, v.F1)
		w2(w, v.F2)
	}
}

func Tuple3Reader[A, B, C any](r0 func(*Reader) A, r1 func(*Reader) B, r2 func(*Reader) C) func(*Reader) Tuple3[A, B, C] {
	return func(r *Reader) Tuple3[A, B, C] {
		var v Tuple3[A, B, C]
		v.F0 = r0(r)
		v.F1 = r1(r)
		v.F2 = r2(r)
		return v
	}
}

// Tuple4 holds 4 positional values.
type Tuple4[A, B, C, D any] struct {
	F0 A
	F1 B
	F2 C
	F3 D
}

func Tuple4Writer[A, B, C, D any](w0 func(*Writer, A), w1 func(*Writer, B), w2 func(*Writer, C), w3 func(*Writer, D)) func(*Writer, Tuple4[A, B, C, D]) {
	return func(w *Writer, v Tuple4[A, B, C, D]) {
		w0(w, v.F0)
		w1(w, v.F1)
		w2(w, v.F2)
		w3(w, v.F3)
	}
}

func Tuple4Reader[A, B, C, D any](r0 func(*Reader) A, r1 func(*Reader) B, r2 func(*Reader) C, r3 func(*Reader) D) func(*Reader) Tuple4[A, B, C, D] {
	return func(r *Reader) Tuple4[A, B, C, D] {
		var v Tuple4[A, B, C, D]
		v.F0 = r0(r)
		v.F1 = r1(r)
		v.F2 = r2(r)
		v.F3 = r3(r)
		return v
	}
}

// Tuple5 holds 5 positional values.
type Tuple5[A, B, C, D, E any] struct {
	F0 A
	F1 B
	F2 C
	F3 D
	F4 E
}

func Tuple5Writer[A, B, C, D, E any](w0 func(*Writer, A), w1 func(*Writer, B), w2 func(*Writer, C), w3 func(*Writer, D), w4 func(*Writer, E)) func(*Writer, Tuple5[A, B, C, D, E]) {
	return func(w *Writer, v Tuple5[A, B, C, D, E]) {
		w0(w, v.F0)
		w1(w, v.F1)
		w2(w, v.F2)
		w3(w, v.F3)
		w4(w, v.F4)
	}
}

func Tuple5Reader[A, B, C, D, E any](r0 func(*Reader) A, r1 func(*Reader) B, r2 func(*Reader) C, r3 func(*Reader) D, r4 func(*Reader) E) func(*Reader) Tuple5[A, B, C, D, E] {
	return func(r *Reader) Tuple5[A, B, C, D, E] {
		var v Tuple5[A, B, C, D, E]
		v.F0 = r0(r)
		v.F1 = r1(r)
		v.F2 = r2(r)
		v.F3 = r3(r)
		v.F4 = r4(r)
		return v
	}
}

// Tuple6 holds 6 positional values.
type Tuple6[A, B, C, D, E, F any] struct {
	F0 A
	F1 B
	F2 C
	F3 D
	F4 E
	F5 F
}

func Tuple6Writer[A, B, C, D, E, F any](w0 func(*Writer, A), w1 func(*Writer, B), w2 func(*Writer, C), w3 func(*Writer, D), w4 func(*Writer, E), w5 func(*Writer, F)) func(*Writer, Tuple6[A, B, C, D, E, F]) {
	return func(w *Writer, v Tuple6[A, B, C, D, E, F]) {
		w0(w, v.F0)
		w1(w, v.F1)
		w2(w, v.F2)
		w3(w, v.F3)
		w4(w, v.F4)
		w5(w, v.F5)
	}
}

func Tuple6Reader[A, B, C, D, E, F any](r0 func(*Reader) A, r1 func(*Reader) B, r2 func(*Reader) C, r3 func(*Reader) D, r4 func(*Reader) E, r5 func(*Reader) F) func(*Reader) Tuple6[A, B, C, D, E, F] {
	return func(r *Reader) Tuple6[A, B, C, D, E, F] {
		var v Tuple6[A, B, C, D, E, F]
		v.F0 = r0(r)
		v.F1 = r1(r)
		v.F2 = r2(r)
		v.F3 = r3(r)
		v.F4 = r4(r)
		v.F5 = r5(r)
		return v
	}
}

// Tuple7 holds 7 positional values.
type Tuple7[A, B, C, D, E, F, G any] struct {
	F0 A
	F1 B
	F2 C
	F3 D
	F4 E
	F5 F
	F6 G
}

func Tuple7Writer[A, B, C, D, E, F, G any](w0 func(*Writer, A), w1 func(*Writer, B), w2 func(*Writer, C), w3 func(*Writer, D), w4 func(*Writer, E), w5 func(*Writer, F), w6 func(*Writer, G)) func(*Writer, Tuple7[A, B, C, D, E, F, G]) {
	return func(w *Writer, v Tuple7[A, B, C, D, E, F, G]) {
		w0(w, v.F0)
		w1(w, v.F1)
		w2(w, v.F2)
		w3(w, v.F3)
		w4(w, v.F4)
		w5(w, v.F5)
		w6(w, v.F6)
	}
}

func Tuple7Reader[A, B, C, D, E, F, G any](r0 func(*Reader) A, r1 func(*Reader) B, r2 func(*Reader) C, r3 func(*Reader) D, r4 func(*Reader) E, r5 func(*Reader) F, r6 func(*Reader) G) func(*Reader) Tuple7[A, B, C, D, E, F, G] {
	return func(r *Reader) Tuple7[A, B, C, D, E, F, G] {
		var v Tuple7[A, B, C, D, E, F, G]
		v.F0 = r0(r)
		v.F1 = r1(r)
		v.F2 = r2(r)
		v.F3 = r3(r)
		v.F4 = r4(r)
		v.F5 = r5(r)
		v.F6 = r6(r)
		return v
	}
}

// Tuple8 holds 8 positional values.
type Tuple8[A, B, C, D, E, F, G, H any] struct {
	F0 A
	F1 B
	F2 C
	F3 D
	F4 E
	F5 F
	F6 G
	F7 H
}

func Tuple8Writer[A, B, C, D, E, F, G, H any](w0 func(*Writer, A), w1 func(*Writer, B), w2 func(*Writer, C), w3 func(*Writer, D), w4 func(*Writer, E), w5 func(*Writer, F), w6 func(*Writer, G), w7 func(*Writer, H)) func(*Writer, Tuple8[A, B, C, D, E, F, G, H]) {
	return func(w *Writer, v Tuple8[A, B, C, D, E, F, G, H]) {
		w0(w, v.F0)
		w1(w, v.F1)
		w2(w, v.F2)
		w3(w, v.F3)
		w4(w, v.F4)
		w5(w, v.F5)
		w6(w, v.F6)
		w7(w, v.F7)
	}
}

func Tuple8Reader[A, B, C, D, E, F, G, H any](r0 func(*Reader) A, r1 func(*Reader) B, r2 func(*Reader) C, r3 func(*Reader) D, r4 func(*Reader) E, r5 func(*Reader) F, r6 func(*Reader) G, r7 func(*Reader) H) func(*Reader) Tuple8[A, B, C, D, E, F, G, H] {
	return func(r *Reader) Tuple8[A, B, C, D, E, F, G, H] {
		var v Tuple8[A, B, C, D, E, F, G, H]
		v.F0 = r0(r)
		v.F1 = r1(r)
		v.F2 = r2(r)
		v.F3 = r3(r)
		v.F4 = r4(r)
		v.F5 = r5(r)
		v.F6 = r6(r)
		v.F7 = r7(r)
		return v
	}
}
