package controllers

import (
	"net/http"

	"github.com/angelmondragon/prosemirror-api/api/responses"
	"github.com/angelmondragon/prosemirror-api/pkg/types"
)

// Index describes the service and its conversion endpoints.
func Index() http.HandlerFunc {
	info := types.ServiceInfo{
		Status:  "ok",
		Message: "HTML to ProseMirror API",
		Endpoints: map[string]string{
			"/convert":         "POST - Convert HTML to ProseMirror JSON",
			"/convert/escaped": "POST - Convert HTML to escaped ProseMirror JSON string",
			"/reverse":         "POST - Convert ProseMirror JSON back to HTML",
		},
	}
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteJSON(w, http.StatusOK, info)
	}
}
