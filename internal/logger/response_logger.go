package logger

import (
	"net/http"

	"github.com/motemen/go-loghttp"
	"github.com/sirupsen/logrus"
)

func requestFields(req *http.Request) logrus.Fields {
	return logrus.Fields{
		"method": req.Method,
		"target": req.URL.Redacted(),
	}
}

// GetResponseLogger wraps transport so outbound calls to targets are logged at trace level.
func GetResponseLogger(log Logger, transport http.RoundTripper) *loghttp.Transport {
	return &loghttp.Transport{
		Transport: transport,
		LogRequest: func(req *http.Request) {
			log.WithFields(requestFields(req)).Trace("calling target")
		},
		LogResponse: func(resp *http.Response) {
			log.WithFields(requestFields(resp.Request)).
				WithField("status", resp.StatusCode).
				Trace("target answered")
		},
	}
}
