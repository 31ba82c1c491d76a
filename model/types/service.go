package types

// Service is an action service, addressed by Name and exposing Methods.
type Service interface {
	Name() string
	Methods() Signatures
	Method(name string) (Executable, error)
}
