package protocol

// Body is a decoded request body
type Body map[string]interface{}

// Validator is implemented by action inputs checking their decoded fields
type Validator interface {
	Validate() error
}
