// Package protocol defines the newline delimited JSON request/response
// envelope exchanged over a TCP connection, one request per connection.
package protocol
