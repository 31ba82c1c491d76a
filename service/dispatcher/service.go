// Package dispatcher routes one wire request to the action service named by
// its action header and always produces exactly one response.
package dispatcher

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/viant/tasksched/extension"
	"github.com/viant/tasksched/internal/idgen"
	"github.com/viant/tasksched/internal/logging"
	"github.com/viant/tasksched/internal/metrics"
	"github.com/viant/tasksched/model/types"
	"github.com/viant/tasksched/service/protocol"
	"github.com/viant/tasksched/tracing"
)

const missingBodyMessage = "Missing request body."

// Service dispatches requests to registered actions
type Service struct {
	actions *extension.Actions
	decoder *protocol.Decoder
	logger  logging.Logger
	metrics metrics.Collector
}

// Option represents dispatcher option
type Option func(s *Service)

// WithLogger sets dispatcher logger
func WithLogger(logger logging.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics sets metrics collector
func WithMetrics(collector metrics.Collector) Option {
	return func(s *Service) {
		if collector != nil {
			s.metrics = collector
		}
	}
}

// New creates a dispatcher
func New(actions *extension.Actions, opts ...Option) *Service {
	ret := &Service{actions: actions, decoder: protocol.NewDecoder(), logger: logging.NewNop(), metrics: metrics.NewNop()}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// Dispatch parses and executes a single request line
func (s *Service) Dispatch(ctx context.Context, line []byte) (response *protocol.Response) {
	started := time.Now()
	requestID := idgen.New()
	action := ""
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("recovered panic", "requestId", requestID, "action", action, "panic", r)
			response = protocol.NewFailure(fmt.Errorf("%v", r))
		}
		if response == nil {
			response = protocol.NewFailure(fmt.Errorf("no response for action: %v", action))
		}
		elapsed := time.Since(started)
		s.metrics.RequestHandled(action, response.StatusCode, elapsed)
		kv := []any{"requestId", requestID, "action", action, "status", response.StatusCode, "elapsed", elapsed}
		switch {
		case response.StatusCode >= http.StatusInternalServerError:
			s.logger.Error("request failed", append(kv, "message", response.Text())...)
		case !response.Success:
			s.logger.Warn("request rejected", append(kv, "message", response.Text())...)
		default:
			s.logger.Debug("request handled", kv...)
		}
	}()

	request, err := protocol.DecodeRequest(line)
	if err != nil {
		response = protocol.NewFailure(protocol.NewError(protocol.KindProtocol, "Invalid JSON: %v", err))
		return response
	}
	action = request.Action()
	ctx, span := tracing.StartSpan(ctx, "dispatch "+action, tracing.KindServer)
	defer span.End()
	span.Set("request.id", requestID).Set("action", action)
	response = s.dispatch(ctx, request)
	span.Status(response.StatusCode)
	return response
}

func (s *Service) dispatch(ctx context.Context, request *protocol.Request) *protocol.Response {
	signature, executable, err := s.lookup(request)
	if err != nil {
		return protocol.NewFailure(err)
	}
	if request.Body == nil {
		return protocol.NewFailure(protocol.NewError(protocol.KindProtocol, missingBodyMessage))
	}
	input := signature.NewInput()
	if err = s.decoder.Decode(request.Body, input); err != nil {
		return protocol.NewFailure(err)
	}
	output, ok := signature.NewOutput().(*types.Output)
	if !ok {
		return protocol.NewFailure(types.NewInvalidOutputError(output))
	}
	if err = s.execute(ctx, executable, input, output); err != nil {
		return protocol.NewFailure(err)
	}
	return protocol.NewSuccess(output.Message, output.Data)
}

func (s *Service) lookup(request *protocol.Request) (*types.Signature, types.Executable, error) {
	unknown := protocol.NewError(protocol.KindProtocol, "Unknown or missing action: %v", request.Action())
	serviceName, methodName, ok := request.Route()
	if !ok {
		return nil, nil, unknown
	}
	service := s.actions.Lookup(serviceName)
	if service == nil {
		return nil, nil, unknown
	}
	signature := service.Methods().Lookup(methodName)
	if signature == nil {
		return nil, nil, unknown
	}
	executable, err := service.Method(signature.Name)
	if err != nil {
		return nil, nil, unknown
	}
	return signature, executable, nil
}

// execute runs the action converting a panic into an internal error
func (s *Service) execute(ctx context.Context, executable types.Executable, input, output interface{}) (err error) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("recovered panic", "panic", r)
			err = fmt.Errorf("%v", r)
		}
	}()
	return executable(ctx, input, output)
}
