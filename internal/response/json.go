// Package response provides JSON rendering helpers and the normalized error
// envelope shared by every API handler.
package response

import (
	"encoding/json"
	"net/http"
)

// JSON writes v as application/json with 200 OK.
func JSON(w http.ResponseWriter, v any) error {
	return JSONWithStatus(w, v, http.StatusOK)
}

// JSONWithStatus writes v as application/json with the given status code.
// Statuses that must not carry a body (204, 304) are written without one.
func JSONWithStatus(w http.ResponseWriter, v any, status int) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")

	if status == 0 {
		if v == nil {
			status = http.StatusNoContent
		} else {
			status = http.StatusOK
		}
	}

	w.WriteHeader(status)

	switch status {
	case http.StatusNoContent, http.StatusNotModified:
		return nil
	}

	return json.NewEncoder(w).Encode(v)
}
