package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "full error",
			err: &Error{
				Phase:      PhaseGenerate,
				Kind:       KindReservedWord,
				Subject:    "point",
				Path:       []string{"fields", "type"},
				Target:     "go",
				SchemaType: "u32",
				Detail:     "identifier is reserved",
			},
			contains: []string{"[generate]", "reserved_word", "in point", "fields.type", "target go", "u32", "identifier is reserved"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase: PhaseDecode,
				Kind:  KindTruncatedInput,
			},
			contains: []string{"[decode]", "truncated_input"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseTransport,
				Kind:   KindInvalidData,
				Detail: "bad response",
				Cause:  errors.New("underlying error"),
			},
			contains: []string{"[transport]", "invalid_data", "bad response", "caused by", "underlying error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := &Error{
		Phase: PhaseEncode,
		Kind:  KindInvalidData,
		Cause: cause,
	}

	if !errors.Is(err.Unwrap(), cause) {
		t.Error("Unwrap did not return cause")
	}
	if !errors.Is(errors.Unwrap(err), cause) {
		t.Error("errors.Unwrap did not return cause")
	}
}

func TestError_Is(t *testing.T) {
	err := &Error{
		Phase: PhaseEncode,
		Kind:  KindTypeMismatch,
		Path:  []string{"foo"},
	}

	if !err.Is(&Error{Phase: PhaseEncode, Kind: KindTypeMismatch}) {
		t.Error("Is should match same phase and kind")
	}
	if err.Is(&Error{Phase: PhaseDecode, Kind: KindTypeMismatch}) {
		t.Error("Is should not match different phase")
	}
	if err.Is(&Error{Phase: PhaseEncode, Kind: KindInvalidData}) {
		t.Error("Is should not match different kind")
	}
	if !err.Is(&Error{Kind: KindTypeMismatch}) {
		t.Error("Is should match kind when target phase is empty")
	}
}

func TestSentinels(t *testing.T) {
	if !errors.Is(TruncatedInput(nil, 4, 1), ErrTruncatedInput) {
		t.Error("TruncatedInput should match ErrTruncatedInput")
	}
	if !errors.Is(InvalidTag([]string{"shape"}, 7, 2), ErrInvalidTag) {
		t.Error("InvalidTag should match ErrInvalidTag")
	}
	if !errors.Is(RangeViolation(nil, uint64(5_000_000_000), "u32"), ErrRangeViolation) {
		t.Error("RangeViolation should match ErrRangeViolation")
	}
	if errors.Is(InvalidTag(nil, 7, 2), ErrTruncatedInput) {
		t.Error("InvalidTag must not match ErrTruncatedInput")
	}
}

func TestBuilder(t *testing.T) {
	cause := errors.New("root")
	err := New(PhaseEncode, KindTypeMismatch).
		Path("user", "name").
		Subject("user").
		Target("typescript").
		SchemaType("u32").
		Value(42).
		Cause(cause).
		Detail("expected %s, got %s", "string", "int").
		Build()

	if err.Phase != PhaseEncode {
		t.Errorf("Phase = %v, want %v", err.Phase, PhaseEncode)
	}
	if err.Kind != KindTypeMismatch {
		t.Errorf("Kind = %v, want %v", err.Kind, KindTypeMismatch)
	}
	if len(err.Path) != 2 || err.Path[0] != "user" || err.Path[1] != "name" {
		t.Errorf("Path = %v, want [user name]", err.Path)
	}
	if err.Subject != "user" || err.Target != "typescript" || err.SchemaType != "u32" {
		t.Errorf("Subject=%v Target=%v SchemaType=%v", err.Subject, err.Target, err.SchemaType)
	}
	if err.Value != 42 {
		t.Errorf("Value = %v, want 42", err.Value)
	}
	if !errors.Is(err.Cause, cause) {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}
	if err.Detail != "expected string, got int" {
		t.Errorf("Detail = %v, want 'expected string, got int'", err.Detail)
	}
}

func TestConvenienceConstructors(t *testing.T) {
	t.Run("InvalidTag", func(t *testing.T) {
		err := InvalidTag([]string{"variant"}, 7, 2)
		if err.Kind != KindInvalidTag || err.Phase != PhaseDecode {
			t.Errorf("Kind=%v Phase=%v", err.Kind, err.Phase)
		}
		if err.Value != uint64(7) {
			t.Errorf("Value = %v, want 7", err.Value)
		}
	})

	t.Run("RangeViolation", func(t *testing.T) {
		err := RangeViolation([]string{"val"}, 300, "u8")
		if err.Kind != KindRangeViolation || err.Phase != PhaseCast {
			t.Errorf("Kind=%v Phase=%v", err.Kind, err.Phase)
		}
		if !strings.Contains(err.Detail, "300") {
			t.Errorf("Detail = %v, should contain value", err.Detail)
		}
	})

	t.Run("TypeCycle", func(t *testing.T) {
		members := []string{"a", "b"}
		err := TypeCycle("go", members)
		if err.Subject != "a" {
			t.Errorf("Subject = %q, want a", err.Subject)
		}
		if !strings.Contains(err.Detail, "a -> b -> a") {
			t.Errorf("Detail = %q", err.Detail)
		}
		if len(members) != 2 {
			t.Error("TypeCycle must not modify its argument")
		}
	})

	t.Run("UndeclaredCast", func(t *testing.T) {
		err := UndeclaredCast("resize", "u64", "s8")
		if err.Kind != KindUndeclaredCast || err.Subject != "resize" {
			t.Errorf("Kind=%v Subject=%v", err.Kind, err.Subject)
		}
	})

	t.Run("InvalidUTF8", func(t *testing.T) {
		err := InvalidUTF8(PhaseDecode, []string{"str"}, []byte{0xff, 0xfe})
		if err.Kind != KindInvalidUTF8 {
			t.Errorf("Kind = %v, want %v", err.Kind, KindInvalidUTF8)
		}
	})

	t.Run("FieldMissing", func(t *testing.T) {
		err := FieldMissing(PhaseEncode, []string{"record"}, "name")
		if err.Kind != KindFieldMissing {
			t.Errorf("Kind = %v, want %v", err.Kind, KindFieldMissing)
		}
	})
}

func TestGenerationError(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		g := &GenerationError{Target: "go"}
		if g.Err() != nil {
			t.Error("empty GenerationError should yield nil")
		}
	})

	t.Run("single problem", func(t *testing.T) {
		g := &GenerationError{Target: "go"}
		g.Add(ReservedWord("go", "func", "func"))
		if g.Error() != g.Problems[0].Error() {
			t.Errorf("single problem message = %q", g.Error())
		}
	})

	t.Run("grouped by subject", func(t *testing.T) {
		g := &GenerationError{Target: "typescript"}
		g.Add(NameCollision("shape", "case", "circle"))
		g.Add(UndeclaredCast("resize", "u64", "s8"))
		g.Add(NameCollision("shape", "case", "square"))

		msg := g.Error()
		for _, s := range []string{"3 problem(s)", "typescript", "shape:", "resize:", "circle", "square"} {
			if !strings.Contains(msg, s) {
				t.Errorf("message %q does not contain %q", msg, s)
			}
		}
	})

	t.Run("errors.Is", func(t *testing.T) {
		g := &GenerationError{}
		g.Add(TypeCycle("go", []string{"node"}))
		var err error = g
		if !errors.Is(err, &Error{Kind: KindTypeCycle}) {
			t.Error("errors.Is should match a collected problem")
		}
		if errors.Is(err, ErrInvalidTag) {
			t.Error("errors.Is should not match absent kinds")
		}
	})
}
