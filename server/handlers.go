package server

import (
	"net/http"

	"github.com/Daskott/raksha/engine/alert"
	"github.com/Daskott/raksha/engine/contacts"
	"github.com/Daskott/raksha/engine/location"
	"github.com/Daskott/raksha/engine/network"
	"github.com/Daskott/raksha/engine/settings"
	"github.com/gorilla/mux"
)

type ResponsePayload struct {
	Errors  []string    `json:"errors"`
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
}

type locationPayload struct {
	Status   location.Status  `json:"status"`
	Location *location.Sample `json:"location"`
}

// networkSignal is a connectivity report from the host. internetReachable is
// left out when it isn't known yet.
type networkSignal struct {
	Connected         *bool `json:"connected" validate:"required"`
	InternetReachable *bool `json:"internetReachable"`
}

var alertStatusCodes = map[alert.Reason]int{
	alert.NoRecipients:        http.StatusUnprocessableEntity,
	alert.DeliveryUnavailable: http.StatusServiceUnavailable,
	alert.DeliveryFailed:      http.StatusBadGateway,
	alert.AlreadyInFlight:     http.StatusConflict,
}

func (srv *Server) status(rw http.ResponseWriter, r *http.Request) {
	writeResponse(rw, ResponsePayload{Success: true, Data: srv.session.Status()}, http.StatusOK)
}

func (srv *Server) sendAlert(rw http.ResponseWriter, r *http.Request) {
	outcome := srv.session.Dispatcher.SendAlert(r.Context())
	if outcome.Delivered {
		writeResponse(rw, ResponsePayload{Success: true, Data: outcome}, http.StatusOK)
		return
	}

	statusCode, ok := alertStatusCodes[outcome.Reason]
	if !ok {
		statusCode = http.StatusInternalServerError
	}
	writeResponse(rw, ResponsePayload{Errors: []string{string(outcome.Reason)}, Data: outcome}, statusCode)
}

func (srv *Server) refreshLocation(rw http.ResponseWriter, r *http.Request) {
	srv.session.Tracker.Refresh(r.Context())
	status, sample := srv.session.Tracker.Snapshot()

	writeResponse(rw, ResponsePayload{
		Success: status != location.Unavailable,
		Data:    locationPayload{Status: status, Location: sample},
	}, http.StatusOK)
}

// updateNetwork classifies a reported signal. With no body the host is probed instead.
func (srv *Server) updateNetwork(rw http.ResponseWriter, r *http.Request) {
	if r.ContentLength == 0 {
		status := srv.session.SampleNetwork(r.Context())
		writeResponse(rw, ResponsePayload{Success: true, Data: map[string]network.Status{"status": status}}, http.StatusOK)
		return
	}

	data := networkSignal{}
	if !decodeAndValidate(rw, r, &data) {
		return
	}

	status := srv.session.Monitor.Update(network.Signal{
		Connected:         *data.Connected,
		InternetReachable: network.ReachabilityOf(data.InternetReachable),
	})
	writeResponse(rw, ResponsePayload{Success: true, Data: map[string]network.Status{"status": status}}, http.StatusOK)
}

func (srv *Server) listContacts(rw http.ResponseWriter, r *http.Request) {
	list, err := srv.session.Contacts.List(r.Context())
	if err != nil {
		// The cached list is still returned
		writeResponse(rw, ResponsePayload{Errors: []string{err.Error()}, Data: list}, errStatusCode(err))
		return
	}

	writeResponse(rw, ResponsePayload{Success: true, Data: list}, http.StatusOK)
}

func (srv *Server) addContact(rw http.ResponseWriter, r *http.Request) {
	draft := contacts.Draft{}
	if !decode(rw, r, &draft) {
		return
	}

	contact, err := srv.session.Contacts.Add(r.Context(), draft)
	if err != nil {
		writeResponse(rw, ResponsePayload{Errors: []string{err.Error()}}, errStatusCode(err))
		return
	}

	writeResponse(rw, ResponsePayload{Success: true, Data: contact}, http.StatusCreated)
}

func (srv *Server) editContact(rw http.ResponseWriter, r *http.Request) {
	patch := contacts.Patch{}
	if !decode(rw, r, &patch) {
		return
	}

	contact, err := srv.session.Contacts.Edit(r.Context(), mux.Vars(r)["id"], patch)
	if err != nil {
		writeResponse(rw, ResponsePayload{Errors: []string{err.Error()}}, errStatusCode(err))
		return
	}

	writeResponse(rw, ResponsePayload{Success: true, Data: contact}, http.StatusOK)
}

func (srv *Server) removeContact(rw http.ResponseWriter, r *http.Request) {
	err := srv.session.Contacts.Remove(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeResponse(rw, ResponsePayload{Errors: []string{err.Error()}}, errStatusCode(err))
		return
	}

	writeResponse(rw, ResponsePayload{Success: true}, http.StatusOK)
}

func (srv *Server) showSettings(rw http.ResponseWriter, r *http.Request) {
	writeResponse(rw, ResponsePayload{Success: true, Data: srv.session.Settings.Current()}, http.StatusOK)
}

func (srv *Server) updateSettings(rw http.ResponseWriter, r *http.Request) {
	patch := settings.Patch{}
	if !decode(rw, r, &patch) {
		return
	}

	updated, err := srv.session.Settings.Update(r.Context(), patch)
	if err != nil {
		writeResponse(rw, ResponsePayload{Errors: []string{err.Error()}, Data: updated}, errStatusCode(err))
		return
	}

	writeResponse(rw, ResponsePayload{Success: true, Data: updated}, http.StatusOK)
}

func notFound(rw http.ResponseWriter, r *http.Request) {
	writeResponse(rw, ResponsePayload{Errors: []string{"route not found"}}, http.StatusNotFound)
}

func methodNotAllowed(rw http.ResponseWriter, r *http.Request) {
	writeResponse(rw, ResponsePayload{Errors: []string{"method not allowed"}}, http.StatusMethodNotAllowed)
}
