package dao

const (
	// IDParameter matches entity identity
	IDParameter = "ID"
	// NameParameter matches a case-insensitive name fragment
	NameParameter = "Name"
	// TaskIDParameter matches an assignment task reference
	TaskIDParameter = "TaskID"
	// MemberIDParameter matches an assignment member reference
	MemberIDParameter = "MemberID"
)

type Parameter struct {
	Name  string
	Value interface{}
}

func NewParameter(name string, values ...string) *Parameter {
	if len(values) == 1 {
		return &Parameter{Name: name, Value: values[0]}
	}
	return &Parameter{Name: name, Value: values}
}
