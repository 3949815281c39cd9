package router

import (
	"github.com/gorilla/mux"

	apiroutes "github.com/linkit/relay/internal/api/routes"
	metricsrouter "github.com/linkit/relay/internal/metrics/router"
)

func GetRouter() *mux.Router {
	r := mux.NewRouter()
	apiroutes.Router(r)
	metricsrouter.Router(r)
	return r
}
