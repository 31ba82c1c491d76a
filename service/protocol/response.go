package protocol

import (
	"encoding/json"
	"io"
	"net/http"
)

// Response represents a wire response
type Response struct {
	Success    bool        `json:"success"`
	Message    *string     `json:"message"`
	Data       interface{} `json:"data"`
	StatusCode int         `json:"statusCode"`
}

// Text returns response message or empty string
func (r *Response) Text() string {
	if r == nil || r.Message == nil {
		return ""
	}
	return *r.Message
}

// NewSuccess creates a successful response
func NewSuccess(message string, data interface{}) *Response {
	ret := &Response{Success: true, Data: data, StatusCode: http.StatusOK}
	if message != "" {
		ret.Message = &message
	}
	return ret
}

// NewFailure creates an error response from err; errors other than *Error are internal.
func NewFailure(err error) *Response {
	e := AsError(err)
	message := e.Message
	return &Response{Success: false, Message: &message, StatusCode: e.StatusCode()}
}

// Encode writes the response as one JSON line
func (r *Response) Encode(w io.Writer) error {
	data, err := json.Marshal(r)
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

// DecodeResponse parses a single response line
func DecodeResponse(line []byte) (*Response, error) {
	ret := &Response{}
	if err := json.Unmarshal(line, ret); err != nil {
		return nil, err
	}
	return ret, nil
}
