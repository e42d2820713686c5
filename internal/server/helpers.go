package server

import (
	"encoding/json"
	"net/http"
)

// Every API response carries the success/message envelope; handlers add
// extra fields through payload maps where needed.
type response map[string]interface{}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeSuccess(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, response{"success": true, "message": message})
}

func writeFailure(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, response{"success": false, "message": message})
}

func decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
