package protocol

import (
	"encoding/json"
	"strings"

	"github.com/viant/toolbox"
)

// ActionHeader carries the "service/method" route of a request
const ActionHeader = "action"

// Request represents a wire request
type Request struct {
	Headers map[string]interface{} `json:"headers"`
	Body    Body                   `json:"body"`
}

// Action returns the action header
func (r *Request) Action() string {
	if r == nil || r.Headers == nil {
		return ""
	}
	value, ok := r.Headers[ActionHeader]
	if !ok || value == nil {
		return ""
	}
	return strings.TrimSpace(toolbox.AsString(value))
}

// Route splits the action header into service and method names
func (r *Request) Route() (service, method string, ok bool) {
	action := r.Action()
	index := strings.Index(action, "/")
	if index <= 0 || index == len(action)-1 {
		return "", "", false
	}
	return action[:index], action[index+1:], true
}

// NewRequest creates a request for action
func NewRequest(action string, body map[string]interface{}) *Request {
	return &Request{Headers: map[string]interface{}{ActionHeader: action}, Body: body}
}

// DecodeRequest parses a single request line
func DecodeRequest(line []byte) (*Request, error) {
	ret := &Request{}
	if err := json.Unmarshal(line, ret); err != nil {
		return nil, err
	}
	return ret, nil
}
