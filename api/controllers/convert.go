package controllers

import (
	"net/http"

	"github.com/angelmondragon/prosemirror-api/api/responses"
	"github.com/angelmondragon/prosemirror-api/api/validators"
	"github.com/angelmondragon/prosemirror-api/internal/conversion"
	"github.com/angelmondragon/prosemirror-api/pkg/logger"
)

// Convert turns the posted html into a ProseMirror document.
func Convert(svc conversion.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req conversion.ConvertRequest
		if err := validators.DecodeBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		res := svc.Convert(r.Context(), req.HTML)
		if !res.OK() {
			responses.WriteError(r.Context(), logg, w, res.Err())
			return
		}
		responses.WriteSuccess(w, res.Value())
	}
}

// ConvertEscaped returns the document as a serialized envelope string.
func ConvertEscaped(svc conversion.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req conversion.ConvertRequest
		if err := validators.DecodeBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		res := svc.ConvertEscaped(r.Context(), req.HTML)
		if !res.OK() {
			responses.WriteError(r.Context(), logg, w, res.Err())
			return
		}
		responses.WriteSuccess(w, res.Value())
	}
}

// Reverse renders a posted document back to html.
func Reverse(svc conversion.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req conversion.ReverseRequest
		if err := validators.DecodeBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, verr := conversion.ResolveReverseInput(req.JSON)
		if verr != nil {
			responses.WriteError(r.Context(), logg, w, verr)
			return
		}

		res := svc.Reverse(r.Context(), input)
		if !res.OK() {
			responses.WriteError(r.Context(), logg, w, res.Err())
			return
		}
		responses.WriteSuccess(w, res.Value())
	}
}
