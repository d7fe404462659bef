package pprof

import (
	"net"
	"net/http"
	_ "net/http/pprof"

	"go.uber.org/zap"

	"github.com/issafronov/pastelite/internal/middleware/logger"
)

// Start запускает pprof-сервер на addr и возвращает фактический адрес слушателя
func Start(addr string) (net.Addr, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}

	go func() {
		logger.Log.Info("starting pprof server", zap.String("addr", ln.Addr().String()))
		if err := http.Serve(ln, http.DefaultServeMux); err != nil {
			logger.Log.Error("pprof server error", zap.Error(err))
		}
	}()
	return ln.Addr(), nil
}
