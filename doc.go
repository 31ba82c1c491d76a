// Package tasksched assigns tasks to team members by skill, priority and daily
// capacity, and serves the scheduling operations over a line oriented TCP protocol.
//
// The root package exposes a Service façade wiring stores, the allocator,
// action services, the dispatcher and the TCP server:
//
//	srv, _ := tasksched.New(ctx, tasksched.WithConfig(cfg))
//	_ = srv.Start(ctx)
//	defer srv.Shutdown(ctx)
//
// Each request is one JSON line {"headers":{"action":"service/method"},"body":{...}}
// answered by one JSON line {"success","message","data","statusCode"}.
package tasksched
