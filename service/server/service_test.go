package server

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/tasksched/service/client"
	"github.com/viant/tasksched/service/messaging/memory"
	"github.com/viant/tasksched/service/protocol"
)

type echoDispatcher struct{}

func (echoDispatcher) Dispatch(_ context.Context, line []byte) *protocol.Response {
	request, err := protocol.DecodeRequest(line)
	if err != nil {
		return protocol.NewFailure(protocol.NewError(protocol.KindProtocol, "Invalid JSON: %v", err))
	}
	return protocol.NewSuccess("ok", request.Action())
}

type brokenDispatcher struct{}

func (brokenDispatcher) Dispatch(ctx context.Context, line []byte) *protocol.Response {
	request, _ := protocol.DecodeRequest(line)
	switch request.Action() {
	case "broken/panic":
		panic("dispatcher failure")
	case "broken/nil":
		return nil
	}
	return echoDispatcher{}.Dispatch(ctx, line)
}

type panicConn struct {
	net.Conn
}

func (panicConn) RemoteAddr() net.Addr {
	panic("remote address unavailable")
}

func startServer(t *testing.T, config Config) *Service {
	t.Helper()
	if config.Address == "" {
		config.Address = "127.0.0.1:0"
	}
	if config.PollInterval == 0 {
		config.PollInterval = 50 * time.Millisecond
	}
	srv, err := New(echoDispatcher{}, WithConfig(config))
	require.NoError(t, err)
	require.NoError(t, srv.Start(context.Background()))
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	})
	return srv
}

func TestService_RequestResponse(t *testing.T) {
	srv := startServer(t, Config{})
	cli := client.New(srv.Addr().String())

	response, err := cli.Send(context.Background(), "task/getAll", nil)
	require.NoError(t, err)
	assert.True(t, response.Success)
	assert.Equal(t, 200, response.StatusCode)
	assert.Equal(t, "task/getAll", response.Data)

	response, err = cli.Exchange(context.Background(), []byte("{not json"))
	require.NoError(t, err)
	assert.False(t, response.Success)
	assert.Equal(t, 400, response.StatusCode)
	assert.Contains(t, response.Text(), "Invalid JSON")

	assert.Eventually(t, func() bool {
		stats := srv.Stats()
		return stats.Served == 2 && stats.Active == 0
	}, 2*time.Second, 10*time.Millisecond)
}

func TestService_NoRequest(t *testing.T) {
	srv := startServer(t, Config{})
	conn, err := net.Dial("tcp", srv.Addr().String())
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.(*net.TCPConn).CloseWrite())

	line, err := bufio.NewReader(conn).ReadBytes('\n')
	require.NoError(t, err)
	response, err := protocol.DecodeResponse(line)
	require.NoError(t, err)
	assert.False(t, response.Success)
	assert.Equal(t, 400, response.StatusCode)
	assert.Equal(t, "No request received.", response.Text())
}

func TestService_ReadTimeout(t *testing.T) {
	srv := startServer(t, Config{ReadTimeout: 100 * time.Millisecond})
	conn, err := net.Dial("tcp", srv.Addr().String())
	require.NoError(t, err)
	defer conn.Close()

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, err = bufio.NewReader(conn).ReadBytes('\n')
	assert.Error(t, err)
	assert.Eventually(t, func() bool {
		return srv.Stats().TimedOut == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestService_RequestTooLarge(t *testing.T) {
	srv := startServer(t, Config{MaxRequestBytes: 64})
	cli := client.New(srv.Addr().String())
	response, err := cli.Send(context.Background(), "task/create", map[string]interface{}{
		"name": fmt.Sprintf("%0128d", 1),
	})
	require.NoError(t, err)
	assert.Equal(t, 400, response.StatusCode)
	assert.Equal(t, "Request too large.", response.Text())
}

func TestService_Concurrent(t *testing.T) {
	srv := startServer(t, Config{Workers: 3})
	cli := client.New(srv.Addr().String())
	const clients = 24
	var wg sync.WaitGroup
	errs := make(chan error, clients)
	for i := 0; i < clients; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			action := fmt.Sprintf("task/%d", i)
			response, err := cli.Send(context.Background(), action, nil)
			if err != nil {
				errs <- err
				return
			}
			if response.Data != action {
				errs <- fmt.Errorf("expected %v, got %v", action, response.Data)
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		assert.NoError(t, err)
	}
	assert.Eventually(t, func() bool {
		return srv.Stats().Served == clients
	}, 2*time.Second, 10*time.Millisecond)
}

func TestService_Shutdown(t *testing.T) {
	srv, err := New(echoDispatcher{}, WithConfig(Config{Address: "127.0.0.1:0", PollInterval: 20 * time.Millisecond}))
	require.NoError(t, err)
	require.NoError(t, srv.Start(context.Background()))
	address := srv.Addr().String()
	assert.Error(t, srv.Start(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, srv.Shutdown(ctx))
	require.NoError(t, srv.Shutdown(ctx))

	_, err = client.New(address, client.WithTimeout(200*time.Millisecond)).Send(context.Background(), "task/getAll", nil)
	assert.Error(t, err)
}

func TestNew(t *testing.T) {
	_, err := New(nil)
	assert.Error(t, err)

	_, err = New(echoDispatcher{}, WithConfig(Config{Workers: -1}))
	assert.Error(t, err)

	srv, err := New(echoDispatcher{})
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), srv.config)
	assert.Nil(t, srv.Addr())
	assert.NoError(t, srv.Shutdown(context.Background()))
}

func TestService_DispatcherPanic(t *testing.T) {
	srv, err := New(brokenDispatcher{}, WithConfig(Config{Address: "127.0.0.1:0", PollInterval: 20 * time.Millisecond, Workers: 1}))
	require.NoError(t, err)
	require.NoError(t, srv.Start(context.Background()))
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	})
	cli := client.New(srv.Addr().String())

	response, err := cli.Send(context.Background(), "broken/panic", nil)
	require.NoError(t, err)
	assert.False(t, response.Success)
	assert.Equal(t, 500, response.StatusCode)
	assert.Contains(t, response.Text(), "dispatcher failure")

	response, err = cli.Send(context.Background(), "broken/nil", nil)
	require.NoError(t, err)
	assert.Equal(t, 500, response.StatusCode)

	response, err = cli.Send(context.Background(), "task/count", nil)
	require.NoError(t, err)
	assert.True(t, response.Success)
	assert.Equal(t, "task/count", response.Data)
}

func TestWorker_HandleRecovers(t *testing.T) {
	srv, err := New(echoDispatcher{})
	require.NoError(t, err)
	ctx := context.Background()
	left, right := net.Pipe()
	defer right.Close()

	queue := memory.NewQueue[net.Conn]()
	var conn net.Conn = panicConn{Conn: left}
	require.NoError(t, queue.Publish(ctx, &conn))
	msg, err := queue.Consume(ctx)
	require.NoError(t, err)

	w := &worker{service: srv, ctx: ctx}
	err = w.handle(msg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "remote address unavailable")
	assert.NoError(t, msg.Nack(err))
}
