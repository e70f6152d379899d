package server

import (
	"net/http"

	clientdist "github.com/vango-dev/toastd/client/dist"
)

func handleClientScript(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=300")
	w.Write(clientdist.ToastJS)
}
