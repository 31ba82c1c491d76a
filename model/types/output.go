package types

// Output is the generic action result: a human readable message and optional data.
type Output struct {
	Message string
	Data    interface{}
}

// Set sets output message and data
func (o *Output) Set(message string, data interface{}) error {
	o.Message = message
	o.Data = data
	return nil
}
