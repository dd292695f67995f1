package main

import (
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"golang.org/x/net/context"
)

type httpConfigService struct {
	srv     *http.Server
	handler *apiHandler
}

func newRouter(handler *apiHandler) *mux.Router {
	r := mux.NewRouter()

	// auth middleware
	r.Use(handler.BasicAuth)
	// api server
	r.HandleFunc("/api/status", handler.apiStatus).Methods("GET")
	r.HandleFunc("/api/set", handler.apiSet).Methods("POST")
	r.HandleFunc("/api/print", handler.apiPrint).Methods("POST")
	r.HandleFunc("/api/clear", handler.apiClear).Methods("POST")
	r.HandleFunc("/api/mode", handler.apiMode).Methods("POST")
	r.HandleFunc("/api/secret", handler.apiSecret).Methods("POST")
	return r
}

func (h *httpConfigService) launch(handler *apiHandler, addr string) {
	h.handler = handler
	h.srv = &http.Server{Addr: addr, Handler: newRouter(handler)}

	// add to the wg
	wg.Add(1)

	// launch the server
	go func() {
		defer wg.Done()
		log.Printf("starting config service http server on %s", addr)
		err := h.srv.ListenAndServe()
		log.Print(err)
		log.Print("Exiting config service")
	}()
}

func (h *httpConfigService) stop() {
	h.srv.Shutdown(context.Background())
}
