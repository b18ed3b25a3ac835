// Package handler owns the per-compile diagnostic list. The analyzer and IR
// lowering passes append to it in call order (see AnalyzerContext.errors in
// §3.1); every other pass is pure and never touches it.
package handler

import (
	"errors"

	"github.com/kfly8/barefootjs-sub004/internal/loc"
)

// Handler accumulates diagnostics for a single compile unit. It is owned by
// the compile driver and passed by reference into the analyzer and IR
// lowering passes.
type Handler struct {
	sourcetext string
	filename   string
	errors     []error
	warnings   []error
	infos      []error
	hints      []error
}

func New(sourcetext string, filename string) *Handler {
	return &Handler{
		sourcetext: sourcetext,
		filename:   filename,
	}
}

func (h *Handler) HasErrors() bool {
	return len(h.errors) > 0
}

func (h *Handler) AppendError(err error) {
	if err != nil {
		h.errors = append(h.errors, err)
	}
}

func (h *Handler) AppendWarning(err error) {
	if err != nil {
		h.warnings = append(h.warnings, err)
	}
}

func (h *Handler) AppendInfo(err error) {
	if err != nil {
		h.infos = append(h.infos, err)
	}
}

func (h *Handler) AppendHint(err error) {
	if err != nil {
		h.hints = append(h.hints, err)
	}
}

func (h *Handler) Errors() []loc.DiagnosticMessage {
	return toMessages(h, loc.ErrorType, h.errors)
}

func (h *Handler) Warnings() []loc.DiagnosticMessage {
	return toMessages(h, loc.WarningType, h.warnings)
}

// Diagnostics returns every accumulated message, errors first, in the order
// the driver surfaces them to callers of Compile.
func (h *Handler) Diagnostics() []loc.DiagnosticMessage {
	msgs := make([]loc.DiagnosticMessage, 0, len(h.errors)+len(h.warnings)+len(h.infos)+len(h.hints))
	msgs = append(msgs, toMessages(h, loc.ErrorType, h.errors)...)
	msgs = append(msgs, toMessages(h, loc.WarningType, h.warnings)...)
	msgs = append(msgs, toMessages(h, loc.InformationType, h.infos)...)
	msgs = append(msgs, toMessages(h, loc.HintType, h.hints)...)
	return msgs
}

func toMessages(h *Handler, severity loc.DiagnosticSeverity, errs []error) []loc.DiagnosticMessage {
	msgs := make([]loc.DiagnosticMessage, 0, len(errs))
	for _, err := range errs {
		msgs = append(msgs, errorToMessage(h, severity, err))
	}
	return msgs
}

func errorToMessage(h *Handler, severity loc.DiagnosticSeverity, err error) loc.DiagnosticMessage {
	var rangedError *loc.ErrorWithRange
	if errors.As(err, &rangedError) {
		line, column := loc.LineAndColumnForOffset(h.sourcetext, rangedError.Range.Loc.Start)
		location := &loc.DiagnosticLocation{
			File:   h.filename,
			Line:   line,
			Column: column,
			Length: rangedError.Range.Len,
		}
		message := rangedError.ToMessage(location)
		message.Severity = severity
		return message
	}
	return loc.DiagnosticMessage{Severity: severity, Text: err.Error()}
}
