package validators

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	pkgerrors "github.com/angelmondragon/prosemirror-api/pkg/errors"
)

type htmlBody struct {
	HTML string `json:"html" validate:"required"`
}

type jsonBody struct {
	JSON json.RawMessage `json:"json" validate:"required"`
}

func newRequest(body, contentType string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/convert", strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return req
}

func TestDecodeBodyJSON(t *testing.T) {
	var body htmlBody
	if err := DecodeBody(newRequest(`{"html":"<p>x</p>","extra":1}`, "application/json"), &body); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if body.HTML != "<p>x</p>" {
		t.Fatalf("unexpected html %q", body.HTML)
	}
}

func TestDecodeBodyForm(t *testing.T) {
	var body htmlBody
	req := newRequest("html=%3Cp%3Ex%3C%2Fp%3E", "application/x-www-form-urlencoded; charset=utf-8")
	if err := DecodeBody(req, &body); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if body.HTML != "<p>x</p>" {
		t.Fatalf("unexpected html %q", body.HTML)
	}

	var reverse jsonBody
	req = newRequest(`json=%7B%22type%22%3A%22doc%22%7D`, "application/x-www-form-urlencoded")
	if err := DecodeBody(req, &reverse); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(reverse.JSON) != `"{\"type\":\"doc\"}"` {
		t.Fatalf("form values should arrive as JSON strings, got %s", reverse.JSON)
	}
}

func TestDecodeBodyMissingField(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		contentType string
	}{
		{name: "empty object", body: `{}`, contentType: "application/json"},
		{name: "empty string", body: `{"html":""}`, contentType: "application/json"},
		{name: "null", body: `{"html":null}`, contentType: "application/json"},
		{name: "no body", body: ``, contentType: ""},
		{name: "empty form", body: ``, contentType: "application/x-www-form-urlencoded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body htmlBody
			err := DecodeBody(newRequest(tt.body, tt.contentType), &body)
			typed := pkgerrors.As(err)
			if typed == nil || typed.Code() != pkgerrors.CodeValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
			if typed.Message() != "Missing required field: html" {
				t.Fatalf("unexpected message %q", typed.Message())
			}
		})
	}
}

func TestDecodeBodyMalformedJSON(t *testing.T) {
	var body htmlBody
	err := DecodeBody(newRequest(`{"html":`, "application/json"), &body)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeInternal {
		t.Fatalf("expected internal error, got %v", err)
	}
	if typed.Cause() == "" {
		t.Fatalf("expected decoder detail to be kept")
	}
}

func TestDecodeBodyTooLarge(t *testing.T) {
	req := newRequest(`{"html":"`+strings.Repeat("x", 64)+`"}`, "application/json")
	rec := httptest.NewRecorder()
	req.Body = http.MaxBytesReader(rec, req.Body, 16)

	var body htmlBody
	err := DecodeBody(req, &body)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodePayloadTooLarge {
		t.Fatalf("expected payload too large, got %v", err)
	}
}
