package mw

import (
	"encoding/json"
	"net/http"
)

// writeError answers with {"message": <status text>}, the API's error shape.
func writeError(w http.ResponseWriter, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": http.StatusText(status)})
}

func forbidden(w http.ResponseWriter) {
	writeError(w, http.StatusForbidden)
}
