package api

import (
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"BdsCrm/internal/logger"
)

// NewRouter builds the gateway routing table: everything under /crm/ is
// proxied to the CRM service, the rest is health and a logged 404.
func NewRouter() *mux.Router {
	router := mux.NewRouter()

	router.PathPrefix("/crm/").Handler(createReverseProxy("http://localhost:6150"))

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("API Gateway is healthy"))
	}).Methods("GET")

	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logr := logger.GlobalLogger
		msg := "[Gateway] [Error] " + r.URL.Path + " from " + r.RemoteAddr + " (route not found)"
		if logr != nil {
			logr.LogAudit(msg)
		} else {
			log.Println(msg)
		}
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("404 - Route not found"))
	})

	return router
}
