package loc

import "fmt"

// DiagnosticSeverity classifies how a DiagnosticMessage should be surfaced to
// a caller of the compile API. Compilation never aborts entirely because of
// a diagnostic; only MalformedComponentShape causes a single component to be
// skipped (see DiagnosticCode).
type DiagnosticSeverity int

const (
	ErrorType DiagnosticSeverity = iota + 1
	WarningType
	InformationType
	HintType
)

func (s DiagnosticSeverity) String() string {
	switch s {
	case ErrorType:
		return "error"
	case WarningType:
		return "warning"
	case InformationType:
		return "info"
	case HintType:
		return "hint"
	default:
		return "unknown"
	}
}

// DiagnosticCode identifies the kind of a diagnostic, matching the error
// taxonomy of the component pipeline.
type DiagnosticCode int

const (
	// UnsupportedJsxPattern: a `.map()` chain's filter/sort predicate could
	// not be lowered into structured form. Compilation continues; the
	// offending chain is kept textually and treated as client-only.
	UnsupportedJsxPattern DiagnosticCode = 1000 + iota
	// MalformedComponentShape: the component has no resolvable return, is
	// not a function/default export, or its props parameter could not be
	// resolved. The component is skipped; siblings still compile.
	MalformedComponentShape
	// MissingRequiredProp: a provider is missing its `value` prop.
	MissingRequiredProp
	// TypeStripResidual: a TypeScript-only token survived type stripping.
	TypeStripResidual
	// DestructuredPropsAdvisory: a destructuring pattern limits reactivity
	// tracking. Non-fatal; tests are expected to filter these out.
	DestructuredPropsAdvisory
	// DuplicateSignalGetter: two `createSignal` declarations share a getter
	// name within the same component.
	DuplicateSignalGetter
	// UnresolvedPropsShape: the component's sole parameter is neither an
	// object pattern nor a plain identifier.
	UnresolvedPropsShape
)

func (c DiagnosticCode) String() string {
	switch c {
	case UnsupportedJsxPattern:
		return "UnsupportedJsxPattern"
	case MalformedComponentShape:
		return "MalformedComponentShape"
	case MissingRequiredProp:
		return "MissingRequiredProp"
	case TypeStripResidual:
		return "TypeStripResidual"
	case DestructuredPropsAdvisory:
		return "DestructuredPropsAdvisory"
	case DuplicateSignalGetter:
		return "DuplicateSignalGetter"
	case UnresolvedPropsShape:
		return "UnresolvedPropsShape"
	default:
		return "Unknown"
	}
}

// DefaultSeverity is the severity a code carries when a pass doesn't pick
// one explicitly (MalformedComponentShape and MissingRequiredProp are
// always hard errors; DestructuredPropsAdvisory is always a warning).
func (c DiagnosticCode) DefaultSeverity() DiagnosticSeverity {
	switch c {
	case DestructuredPropsAdvisory:
		return WarningType
	default:
		return ErrorType
	}
}

// DiagnosticLocation is a resolved, human-readable source position, produced
// from a Range by a line/column index owned by the caller (see
// handler.Handler).
type DiagnosticLocation struct {
	File   string
	Line   int
	Column int
	Length int
}

// DiagnosticMessage is the shape returned to callers of the compile API in
// CompileResult.Errors.
type DiagnosticMessage struct {
	Code       DiagnosticCode
	Severity   DiagnosticSeverity
	Text       string
	Suggestion string
	Location   *DiagnosticLocation
}

func (m DiagnosticMessage) String() string {
	if m.Location == nil {
		return fmt.Sprintf("%s: %s", m.Severity, m.Text)
	}
	return fmt.Sprintf("%s:%d:%d: %s: %s", m.Location.File, m.Location.Line, m.Location.Column, m.Severity, m.Text)
}

// ErrorWithRange is the error type carried through a compile pass so the
// driver can resolve a precise source location lazily, only when a
// diagnostic is actually surfaced.
type ErrorWithRange struct {
	Code       DiagnosticCode
	Text       string
	Range      Range
	Suggestion string
}

func (e *ErrorWithRange) Error() string {
	return e.Text
}

func (e *ErrorWithRange) ToMessage(location *DiagnosticLocation) DiagnosticMessage {
	return DiagnosticMessage{
		Code:       e.Code,
		Severity:   e.Code.DefaultSeverity(),
		Text:       e.Text,
		Suggestion: e.Suggestion,
		Location:   location,
	}
}

// NewError constructs an ErrorWithRange anchored at a single source location.
func NewError(code DiagnosticCode, text string, at Loc, length int) *ErrorWithRange {
	return &ErrorWithRange{Code: code, Text: text, Range: Range{Loc: at, Len: length}}
}

// NewErrorWithSuggestion is like NewError but attaches a fix-it suggestion,
// as used for UnsupportedJsxPattern's "@client" hint.
func NewErrorWithSuggestion(code DiagnosticCode, text, suggestion string, at Loc, length int) *ErrorWithRange {
	return &ErrorWithRange{Code: code, Text: text, Suggestion: suggestion, Range: Range{Loc: at, Len: length}}
}
