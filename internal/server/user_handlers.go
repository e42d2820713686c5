package server

import (
	"log"
	"net/http"
)

func (s *Server) handleUserData(w http.ResponseWriter, r *http.Request) {
	user, err := s.Users.FindByID(r.Context(), userIDFromContext(r.Context()))
	if err != nil {
		log.Printf("user data: lookup failed: %v", err)
		writeFailure(w, http.StatusInternalServerError, "Failed to load user")
		return
	}
	if user == nil {
		writeFailure(w, http.StatusNotFound, "User not found")
		return
	}

	writeJSON(w, http.StatusOK, response{
		"success": true,
		"userData": map[string]interface{}{
			"name":              user.Name,
			"isAccountVerified": user.IsAccountVerified,
		},
	})
}
