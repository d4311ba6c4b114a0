package forwardapi

import (
	"errors"
	"net/http"

	"github.com/corvomail/forwardd/logger"
	"github.com/corvomail/forwardd/rewrite"
)

// errorResponse is the JSON error envelope. Client errors carry type
// "InvalidArgument"; internal failures carry "ServerError" and never leak the
// underlying error text.
type errorResponse struct {
	StatusCode int    `json:"statusCode"`
	Type       string `json:"type"`
	Message    string `json:"message"`
	Cause      string `json:"cause,omitempty"`
}

// forwardDestination is one entry in the GET response for a single forward.
type forwardDestination struct {
	MailAddress string `json:"mailAddress"`
}

func (s *Server) handleListForwards(w http.ResponseWriter, r *http.Request) {
	bases, err := s.forwards.ListForwards(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, bases)
}

func (s *Server) handleGetForward(w http.ResponseWriter, r *http.Request) {
	destinations, err := s.forwards.Forwards(r.Context(), pathVar(r, "base"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	response := make([]forwardDestination, 0, len(destinations))
	for _, destination := range destinations {
		response = append(response, forwardDestination{MailAddress: destination})
	}
	s.writeJSON(w, http.StatusOK, response)
}

func (s *Server) handleAddForward(w http.ResponseWriter, r *http.Request) {
	err := s.forwards.AddForward(r.Context(), pathVar(r, "base"), pathVar(r, "destination"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (s *Server) handleRemoveForward(w http.ResponseWriter, r *http.Request) {
	err := s.forwards.RemoveForward(r.Context(), pathVar(r, "base"), pathVar(r, "destination"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// handleMissingDestination answers PUT and DELETE on a bare base address.
// Mutations always name a destination, so the request is routed through the
// service with an empty one and rejected by the shared classification path.
func (s *Server) handleMissingDestination(w http.ResponseWriter, r *http.Request) {
	var err error
	if r.Method == http.MethodDelete {
		err = s.forwards.RemoveForward(r.Context(), pathVar(r, "base"), "")
	} else {
		err = s.forwards.AddForward(r.Context(), pathVar(r, "base"), "")
	}
	s.writeServiceError(w, r, err)
}

// writeServiceError maps a ForwardService error to an HTTP response.
// Validation failures and the missing-destination case are 400, unknown
// forwards and unknown base users are 404, everything else is an internal 500.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var parseErr *rewrite.ParseError
	switch {
	case errors.As(err, &parseErr):
		s.writeJSON(w, http.StatusBadRequest, errorResponse{
			StatusCode: http.StatusBadRequest,
			Type:       "InvalidArgument",
			Message:    "The forward is not an email address",
			Cause:      parseErr.Error(),
		})
	case errors.Is(err, rewrite.ErrDestinationMissing):
		s.writeJSON(w, http.StatusBadRequest, errorResponse{
			StatusCode: http.StatusBadRequest,
			Type:       "InvalidArgument",
			Message:    "A destination address needs to be specified in the path",
		})
	case errors.Is(err, rewrite.ErrForwardNotFound):
		s.writeJSON(w, http.StatusNotFound, errorResponse{
			StatusCode: http.StatusNotFound,
			Type:       "InvalidArgument",
			Message:    "The forward does not exist",
		})
	case errors.Is(err, rewrite.ErrBaseUserNotFound):
		s.writeJSON(w, http.StatusNotFound, errorResponse{
			StatusCode: http.StatusNotFound,
			Type:       "InvalidArgument",
			Message:    "Requested base forward address does not correspond to a user",
		})
	default:
		logger.Warn("HTTP API: Internal error", "method", r.Method, "path", r.URL.Path, "error", err)
		s.writeJSON(w, http.StatusInternalServerError, errorResponse{
			StatusCode: http.StatusInternalServerError,
			Type:       "ServerError",
			Message:    "Internal server error",
		})
	}
}
