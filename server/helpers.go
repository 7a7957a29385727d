package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/Daskott/raksha/engine/api"
	"github.com/Daskott/raksha/engine/contacts"
	"github.com/Daskott/raksha/engine/settings"
	"github.com/go-playground/validator"
)

var validate = validator.New()

// ---------------------------------------------------------------------------------//
// Handler Helper functions
// --------------------------------------------------------------------------------//

func writeResponse(rw http.ResponseWriter, payLoad ResponsePayload, statusCode int) {
	if statusCode >= http.StatusInternalServerError {
		logg.Error(payLoad.Errors)
	} else if statusCode >= http.StatusBadRequest {
		logg.Info(payLoad.Errors)
	}

	if payLoad.Errors == nil {
		payLoad.Errors = []string{}
	}

	rw.WriteHeader(statusCode)
	json.NewEncoder(rw).Encode(payLoad)
}

// decode reads the JSON body into data. On failure it writes a 400 & returns false.
func decode(rw http.ResponseWriter, r *http.Request, data interface{}) bool {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(data); err != nil {
		writeResponse(rw, ResponsePayload{Errors: []string{err.Error()}}, http.StatusBadRequest)
		return false
	}
	return true
}

func decodeAndValidate(rw http.ResponseWriter, r *http.Request, data interface{}) bool {
	if !decode(rw, r, data) {
		return false
	}

	if errs := validate.Struct(data); errs != nil {
		writeResponse(rw, ResponsePayload{Errors: strings.Split(errs.Error(), "\n")}, http.StatusBadRequest)
		return false
	}
	return true
}

// errStatusCode maps engine errors to the status returned to the client
func errStatusCode(err error) int {
	switch {
	case errors.Is(err, contacts.ErrInvalidContact), errors.Is(err, settings.ErrInvalidSettings):
		return http.StatusBadRequest
	case errors.Is(err, contacts.ErrCapacityExceeded):
		return http.StatusConflict
	case errors.Is(err, settings.ErrNotPersisted):
		return http.StatusAccepted
	case errors.Is(err, api.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, api.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, api.ErrTransientNetwork):
		return http.StatusServiceUnavailable
	case errors.Is(err, api.ErrRejected):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
