package health

import "net/http"

// Handler reports liveness. It stays dependency-free so it answers even when
// the database or Redis is down.
func Handler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
