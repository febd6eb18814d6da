package certificate

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// VerifyCertificate is public: anyone holding a certificate number can
// check it.
func (h *Handler) VerifyCertificate(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	number := vars["number"]

	cert, err := h.service.Verify(r.Context(), number)
	if err != nil {
		if errors.Is(err, ErrInvalidNumber) {
			http.Error(w, "Malformed certificate number", http.StatusBadRequest)
			return
		}
		if errors.Is(err, ErrNotFound) {
			http.Error(w, "Certificate not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Verification failed", http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(cert)
}

func (h *Handler) GetMyCertificates(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("user_id").(uint)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	certs, err := h.service.ListByUser(r.Context(), userID)
	if err != nil {
		http.Error(w, "Failed to load certificates", http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(certs)
}
