package controllers

import (
	"fmt"
	"net/http"

	"github.com/angelmondragon/prosemirror-api/api/responses"
	pkgerrors "github.com/angelmondragon/prosemirror-api/pkg/errors"
	"github.com/angelmondragon/prosemirror-api/pkg/logger"
)

func NotFound(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeNotFound, cannot(r), ""))
	}
}

func MethodNotAllowed(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeMethodNotAllowed, cannot(r), ""))
	}
}

func cannot(r *http.Request) error {
	return fmt.Errorf("Cannot %s %s", r.Method, r.URL.Path)
}
