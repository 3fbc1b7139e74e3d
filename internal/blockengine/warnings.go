package blockengine

// WarningKind classifies recoverable conditions raised during flattening
// and materialization.
type WarningKind string

const (
	// WarnUnresolvedReference means a named template could not be found;
	// the placeholder was left literal.
	WarnUnresolvedReference WarningKind = "unresolved_reference"
	// WarnCyclicReference means a name reappeared in its own expansion
	// ancestry; expansion halted at that occurrence.
	WarnCyclicReference WarningKind = "cyclic_reference"
	// WarnDepthExceeded means expansion hit the configured depth limit.
	WarnDepthExceeded WarningKind = "depth_exceeded"
	// WarnUnrecognizedPlaceholder means a placeholder matched no reserved
	// kind and no template; it degraded to a literal block.
	WarnUnrecognizedPlaceholder WarningKind = "unrecognized_placeholder"
	// WarnMalformedResponseFile means a PROMPT_RESPONSE value looked like
	// content rather than a filename; a default filename was substituted.
	WarnMalformedResponseFile WarningKind = "malformed_response_file"
	// WarnPersistenceFailure means a companion file operation failed.
	WarnPersistenceFailure WarningKind = "persistence_failure"
)

// Warning is one recoverable condition. Materialization always completes
// with a best-effort result; warnings are the only trace of what degraded.
type Warning struct {
	Kind    WarningKind
	Name    string
	Message string
}

// WarningFunc receives warnings as they are raised. A nil WarningFunc
// silently drops them.
type WarningFunc func(Warning)

func (f WarningFunc) emit(w Warning) {
	if f != nil {
		f(w)
	}
}
