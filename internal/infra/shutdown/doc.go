// Package shutdown coordinates graceful termination of long-running commands.
//
// A Handler waits for SIGINT, SIGTERM or context cancellation and then runs
// the registered hooks in reverse registration order under a timeout:
//
//	h := shutdown.NewHandler(10 * time.Second)
//	h.OnShutdown(srv.Shutdown)
//	return h.Wait(ctx)
package shutdown
