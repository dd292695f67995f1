package main

// testConfigService stands in for the http server; tests drive the handler
// directly.
type testConfigService struct {
	handler  *apiHandler
	addr     string
	launched chan struct{}
	stopped  chan struct{}
}

func newTestConfigService() *testConfigService {
	return &testConfigService{
		launched: make(chan struct{}),
		stopped:  make(chan struct{}),
	}
}

func (t *testConfigService) launch(handler *apiHandler, addr string) {
	t.handler = handler
	t.addr = addr
	close(t.launched)
}

func (t *testConfigService) stop() {
	close(t.stopped)
}
