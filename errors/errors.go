package errors

import (
	"fmt"
	"sort"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseGenerate  Phase = "generate"  // schema validation and code emission
	PhaseEncode    Phase = "encode"    // value to wire bytes
	PhaseDecode    Phase = "decode"    // wire bytes to value
	PhaseCast      Phase = "cast"      // integer conversion between cast group members
	PhaseTransport Phase = "transport" // transport binding plumbing
	PhaseLoad      Phase = "load"      // schema document loading
	PhaseParse     Phase = "parse"     // type expression parsing
)

// Kind categorizes the error
type Kind string

const (
	KindTruncatedInput  Kind = "truncated_input"
	KindInvalidTag      Kind = "invalid_tag"
	KindRangeViolation  Kind = "range_violation"
	KindUndeclaredCast  Kind = "undeclared_cast"
	KindTypeCycle       Kind = "type_cycle"
	KindNameCollision   Kind = "name_collision"
	KindReservedWord    Kind = "reserved_word"
	KindUnresolvedType  Kind = "unresolved_type"
	KindTypeMismatch    Kind = "type_mismatch"
	KindInvalidData     Kind = "invalid_data"
	KindInvalidUTF8     Kind = "invalid_utf8"
	KindUnsupported     Kind = "unsupported"
	KindFieldMissing    Kind = "field_missing"
	KindFieldUnknown    Kind = "field_unknown"
	KindNotFound        Kind = "not_found"
	KindInvalidInput    Kind = "invalid_input"
	KindNonCanonical    Kind = "non_canonical"
	KindTrailingPayload Kind = "trailing_payload"
)

// Sentinels for errors.Is matching by kind regardless of phase.
var (
	ErrTruncatedInput = &Error{Kind: KindTruncatedInput}
	ErrInvalidTag     = &Error{Kind: KindInvalidTag}
	ErrRangeViolation = &Error{Kind: KindRangeViolation}
)

// Error is the structured error type used throughout the module
type Error struct {
	Value      any
	Cause      error
	Phase      Phase
	Kind       Kind
	Target     string
	SchemaType string
	Subject    string
	Detail     string
	Path       []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Subject != "" {
		b.WriteString(" in ")
		b.WriteString(e.Subject)
	}

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.Target != "" || e.SchemaType != "" {
		b.WriteString(": ")
		switch {
		case e.Target != "" && e.SchemaType != "":
			b.WriteString("target ")
			b.WriteString(e.Target)
			b.WriteString(", type ")
			b.WriteString(e.SchemaType)
		case e.Target != "":
			b.WriteString("target ")
			b.WriteString(e.Target)
		default:
			b.WriteString("type ")
			b.WriteString(e.SchemaType)
		}
	}

	if e.Detail != "" {
		if e.Target != "" || e.SchemaType != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error. A target with an empty
// Phase matches on Kind alone.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		if t.Phase != "" && t.Phase != e.Phase {
			return false
		}
		return e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the field path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// Subject sets the offending type or function name
func (b *Builder) Subject(name string) *Builder {
	b.err.Subject = name
	return b
}

// Target sets the code generation target name
func (b *Builder) Target(t string) *Builder {
	b.err.Target = t
	return b
}

// SchemaType sets the schema type rendering
func (b *Builder) SchemaType(t string) *Builder {
	b.err.SchemaType = t
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Wire taxonomy

// TruncatedInput reports a buffer exhausted before a length, tag or payload was fully read.
func TruncatedInput(path []string, need, have int) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindTruncatedInput,
		Path:   path,
		Detail: fmt.Sprintf("need %d bytes, %d remaining", need, have),
	}
}

// InvalidTag reports a discriminant or ordinal outside the declared case range.
func InvalidTag(path []string, tag uint64, cases int) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindInvalidTag,
		Path:   path,
		Detail: fmt.Sprintf("tag %d out of range for %d cases", tag, cases),
		Value:  tag,
	}
}

// RangeViolation reports a value that does not fit the destination integer type.
func RangeViolation(path []string, value any, targetType string) *Error {
	return &Error{
		Phase:      PhaseCast,
		Kind:       KindRangeViolation,
		Path:       path,
		SchemaType: targetType,
		Detail:     fmt.Sprintf("value %v outside representable range of %s", value, targetType),
		Value:      value,
	}
}

// NonCanonical reports a varint with superfluous groups or bits beyond its width.
func NonCanonical(path []string, detail string) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindNonCanonical,
		Path:   path,
		Detail: detail,
	}
}

// Generation taxonomy

// UndeclaredCast reports a cast between integers that share no cast group.
func UndeclaredCast(subject, from, to string) *Error {
	return &Error{
		Phase:   PhaseGenerate,
		Kind:    KindUndeclaredCast,
		Subject: subject,
		Detail:  fmt.Sprintf("no cast group declares both %s and %s", from, to),
	}
}

// TypeCycle reports a named type cycle the target cannot express.
func TypeCycle(target string, members []string) *Error {
	return &Error{
		Phase:   PhaseGenerate,
		Kind:    KindTypeCycle,
		Target:  target,
		Subject: members[0],
		Detail:  fmt.Sprintf("cycle %s -> %s has no indirection", strings.Join(members, " -> "), members[0]),
	}
}

// NameCollision reports two fields, cases, types or functions sharing a name.
func NameCollision(subject, what, name string) *Error {
	return &Error{
		Phase:   PhaseGenerate,
		Kind:    KindNameCollision,
		Subject: subject,
		Detail:  fmt.Sprintf("duplicate %s %q", what, name),
	}
}

// ReservedWord reports an identifier that collides with a target keyword.
func ReservedWord(target, subject, ident string) *Error {
	return &Error{
		Phase:   PhaseGenerate,
		Kind:    KindReservedWord,
		Target:  target,
		Subject: subject,
		Detail:  fmt.Sprintf("identifier %q is reserved", ident),
	}
}

// UnresolvedType reports a reference to a type id or name not in the schema.
func UnresolvedType(subject, ref string) *Error {
	return &Error{
		Phase:   PhaseGenerate,
		Kind:    KindUnresolvedType,
		Subject: subject,
		Detail:  fmt.Sprintf("unresolved type %s", ref),
	}
}

// Value conversion

// TypeMismatch creates a type mismatch error
func TypeMismatch(phase Phase, path []string, goType, schemaType string) *Error {
	return &Error{
		Phase:      phase,
		Kind:       KindTypeMismatch,
		Path:       path,
		SchemaType: schemaType,
		Detail:     fmt.Sprintf("cannot use Go value of type %s", goType),
	}
}

// InvalidUTF8 creates an invalid UTF-8 error
func InvalidUTF8(phase Phase, path []string, data []byte) *Error {
	preview := data
	if len(preview) > 32 {
		preview = preview[:32]
	}
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidUTF8,
		Path:   path,
		Detail: fmt.Sprintf("invalid UTF-8 sequence: %x", preview),
	}
}

// FieldMissing creates a missing field error
func FieldMissing(phase Phase, path []string, fieldName string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindFieldMissing,
		Path:   path,
		Detail: fmt.Sprintf("required field %q not found", fieldName),
	}
}

// FieldUnknown creates an unknown field error
func FieldUnknown(phase Phase, path []string, fieldName string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindFieldUnknown,
		Path:   path,
		Detail: fmt.Sprintf("unknown field %q", fieldName),
	}
}

// Unsupported creates an unsupported operation error
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Detail: what,
	}
}

// InvalidData creates an invalid data error
func InvalidData(phase Phase, path []string, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidData,
		Path:   path,
		Detail: detail,
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

// ParseFailed creates a parsing error
func ParseFailed(what string, cause error) *Error {
	return &Error{
		Phase:  PhaseParse,
		Kind:   KindInvalidData,
		Detail: fmt.Sprintf("parse %s", what),
		Cause:  cause,
	}
}

// Load creates a schema loading error
func Load(detail string, cause error) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindInvalidData,
		Detail: detail,
		Cause:  cause,
	}
}

// GenerationError collects every problem found while validating a schema
// for a target. Emission produces no output when one is returned.
type GenerationError struct {
	Target   string
	Problems []*Error
}

// Add appends a problem
func (e *GenerationError) Add(err *Error) {
	e.Problems = append(e.Problems, err)
}

// Empty reports whether no problems were collected
func (e *GenerationError) Empty() bool {
	return len(e.Problems) == 0
}

// Err returns nil when empty so callers can return it directly
func (e *GenerationError) Err() error {
	if e.Empty() {
		return nil
	}
	return e
}

func (e *GenerationError) Error() string {
	if len(e.Problems) == 0 {
		return "[generate] no problems recorded"
	}
	if len(e.Problems) == 1 {
		return e.Problems[0].Error()
	}

	var b strings.Builder
	if e.Target != "" {
		fmt.Fprintf(&b, "%d problem(s) generating %s bindings:\n", len(e.Problems), e.Target)
	} else {
		fmt.Fprintf(&b, "%d problem(s) generating bindings:\n", len(e.Problems))
	}

	// Group by subject for cleaner output
	bySubject := make(map[string][]*Error)
	var order []string
	for _, p := range e.Problems {
		if _, exists := bySubject[p.Subject]; !exists {
			order = append(order, p.Subject)
		}
		bySubject[p.Subject] = append(bySubject[p.Subject], p)
	}
	sort.SliceStable(order, func(i, j int) bool { return order[i] < order[j] })

	for _, subject := range order {
		b.WriteString("\n  ")
		if subject == "" {
			b.WriteString("(schema)")
		} else {
			b.WriteString(subject)
		}
		b.WriteString(":\n")
		for _, p := range bySubject[subject] {
			b.WriteString("    - ")
			b.WriteString(string(p.Kind))
			if p.Detail != "" {
				b.WriteString(": ")
				b.WriteString(p.Detail)
			}
			b.WriteByte('\n')
		}
	}

	return strings.TrimSuffix(b.String(), "\n")
}

// Is matches when any collected problem matches target
func (e *GenerationError) Is(target error) bool {
	if _, ok := target.(*GenerationError); ok {
		return true
	}
	for _, p := range e.Problems {
		if p.Is(target) {
			return true
		}
	}
	return false
}
