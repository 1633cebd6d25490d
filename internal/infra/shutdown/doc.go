// Package shutdown coordinates process teardown for falcon-speak.
//
// Commands run under a context cancelled by SIGINT or SIGTERM, and
// register cleanup hooks (closing the token store, flushing metrics)
// that run exactly once when the command returns:
//
//	ctx, stop := shutdown.NotifyContext(context.Background())
//	defer stop()
//
//	h := shutdown.NewHandler(5 * time.Second)
//	h.OnShutdown(store.CloseContext)
//	defer h.Shutdown()
package shutdown
