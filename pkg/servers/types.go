package servers

import (
	"net/http"

	"github.com/qmdx00/lifecycle"
)

var (
	_ Server = (*httpServer)(nil)
	_ Server = (*baseServer)(nil)
)

type Server interface {
	lifecycle.Server
}

var (
	_ BuildHttpServerFn = BuildHttpServer
)

type BuildHttpServerFn func(name string, server *http.Server) (string, Server)
