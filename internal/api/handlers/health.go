package handlers

import "net/http"

func HandleHealth(responseWriter http.ResponseWriter, _ *http.Request) error {
	responseWriter.Header().Set("content-type", "text/plain")
	_, _ = responseWriter.Write([]byte("ok"))
	return nil
}
