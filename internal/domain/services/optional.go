package services

// OptionalString carries PATCH tri-state semantics without JSON tags.
// Handlers map it from httputil.OptionalString.
//   - Present=false: field absent (don't change)
//   - Present=true, Value=nil: clear
//   - Present=true, Value=&"x": set
type OptionalString struct {
	Present bool
	Value   *string
}
