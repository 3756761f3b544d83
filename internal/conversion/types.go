package conversion

import (
	"encoding/json"

	"github.com/angelmondragon/prosemirror-api/pkg/prosemirror"
)

// EnvelopeVersion is the only envelope version this service produces.
const EnvelopeVersion = "1"

const (
	OperationConvert        = "convert"
	OperationConvertEscaped = "convert_escaped"
	OperationReverse        = "reverse"
)

// Client-facing failure messages.
const (
	MsgMissingHTML   = "Missing required field: html"
	MsgMissingJSON   = "Missing required field: json"
	MsgConvertFailed = "Failed to convert HTML to ProseMirror"
	MsgReverseFailed = "Failed to convert ProseMirror to HTML"
)

// Envelope wraps a document for storage as an opaque string.
type Envelope struct {
	Version  string            `json:"version"`
	Document *prosemirror.Node `json:"document"`
}

// ConvertRequest is the body accepted by /convert and /convert/escaped.
type ConvertRequest struct {
	HTML string `json:"html" validate:"required"`
}

// ReverseRequest carries the document in any accepted shape: a tree, an
// envelope, or either one serialized as a JSON string.
type ReverseRequest struct {
	JSON json.RawMessage `json:"json" validate:"required"`
}
