package api

// Handlers groups the HTTP handlers over the shared dependency graph
type Handlers struct {
	deps *Dependencies
}

// NewHandlers creates the handler set
func NewHandlers(deps *Dependencies) *Handlers {
	return &Handlers{deps: deps}
}
