package status

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/golden-vcr/auth"
	"github.com/golden-vcr/server-common/entry"
	"github.com/gorilla/mux"

	"github.com/golden-vcr/flickrauth/internal/api"
	"github.com/golden-vcr/flickrauth/internal/settings"
)

// Prober checks whether the stored access token is accepted by Flickr
type Prober interface {
	TestLogin(ctx context.Context) (*api.Reply, error)
}

type Server struct {
	account string
	store   settings.Store
	prober  Prober
}

func NewServer(account string, store settings.Store, prober Prober) *Server {
	return &Server{
		account: account,
		store:   store,
		prober:  prober,
	}
}

func (s *Server) RegisterRoutes(c auth.Client, r *mux.Router) {
	r.Path("/status").Methods("GET").HandlerFunc(s.handleGetStatus)

	credentials := r.Path("/credentials").Subrouter()
	credentials.Use(func(next http.Handler) http.Handler {
		return auth.RequireAccess(c, auth.RoleBroadcaster, next)
	})
	credentials.Methods("DELETE").HandlerFunc(s.handleDeleteCredentials)
}

// handleGetStatus (GET /status) reports whether a Flickr account is linked, along with
// the stored profile details and the result of testing the stored token against the
// Flickr API
func (s *Server) handleGetStatus(res http.ResponseWriter, req *http.Request) {
	logger := entry.Log(req)

	status, err := resolveStatus(req.Context(), s.account, s.store, s.prober)
	if err != nil {
		logger.Error("Failed to resolve Flickr account status", "error", err)
		http.Error(res, err.Error(), http.StatusInternalServerError)
		return
	}
	if status.Linked && !status.Ok {
		logger.Warn("Stored Flickr token was not accepted",
			"stat", status.Probe.Stat,
			"code", status.Probe.Code,
			"message", status.Probe.Message,
			"probeError", status.Probe.Error,
		)
	}

	res.Header().Set("content-type", "application/json")
	if err := json.NewEncoder(res).Encode(status); err != nil {
		http.Error(res, err.Error(), http.StatusInternalServerError)
	}
}

// handleDeleteCredentials (DELETE /credentials) erases the stored token and profile,
// unlinking the Flickr account: the next authorization attempt will have to go through
// the full handshake
func (s *Server) handleDeleteCredentials(res http.ResponseWriter, req *http.Request) {
	logger := entry.Log(req)

	if err := settings.ClearCredentials(req.Context(), s.store); err != nil {
		logger.Error("Failed to clear stored Flickr credentials", "error", err)
		http.Error(res, fmt.Sprintf("failed to clear stored credentials: %v", err), http.StatusInternalServerError)
		return
	}
	logger.Info("Cleared stored Flickr credentials", "account", s.account)
	res.WriteHeader(http.StatusNoContent)
}
