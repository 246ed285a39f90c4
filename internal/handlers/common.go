// Package handlers exposes the service layer as a JSON HTTP API.
package handlers

import (
	"net/http"
	"strconv"
)

// pathID parses the {id} path segment of a request.
func pathID(r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
