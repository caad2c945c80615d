package apperr

type Kind string

// AppError carries a safe public message next to the internal cause.
type AppError struct {
	Kind      Kind
	PublicMsg string            // shown to the visitor
	Fields    map[string]string // per-field form messages, optional
	Err       error             // logged, never rendered
}
