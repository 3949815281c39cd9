package internal

import (
	"context"
	"net/http"
	"time"

	sentryhttp "github.com/getsentry/sentry-go/http"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/linkit/relay/internal/dic"
	"github.com/linkit/relay/internal/logger"
)

type Config struct {
	Address string
}

func StartServer(ctx context.Context, cfg Config) error {
	muxRouter := dic.GetService[*mux.Router]()
	log := dic.GetService[logger.Logger]()
	sentryHandler := sentryhttp.New(sentryhttp.Options{})

	handler := sentryHandler.HandleFunc(func(responseWriter http.ResponseWriter, request *http.Request) {
		log.WithFields(logrus.Fields{
			"querystring": request.URL.RawQuery,
			"remote_addr": request.RemoteAddr,
		}).Debugf("%s %s", request.Method, request.URL.Path)
		muxRouter.ServeHTTP(responseWriter, request)
	})

	srv := &http.Server{
		Handler:           handler,
		Addr:              cfg.Address,
		WriteTimeout:      30 * time.Second,
		ReadTimeout:       30 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	log.WithField("address", cfg.Address).Info("Starting http server")

	serverErr := make(chan error, 1)
	go func() {
		err := srv.ListenAndServe()
		if !errors.Is(err, http.ErrServerClosed) {
			serverErr <- errors.Wrap(err, "http server failed")
			return
		}
		log.Info("server stopped")
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err := srv.Shutdown(shutdownCtx) //nolint:contextcheck
	if err != nil {
		return errors.Wrap(err, "error while sending shutdown signal to http server")
	}

	return nil
}
