package conversion

import (
	"encoding/json"

	pkgerrors "github.com/angelmondragon/prosemirror-api/pkg/errors"
	"github.com/tidwall/gjson"
)

// ReverseInput is the resolved form of the reverse request's json field. It is
// one of TreeInput, EnvelopeInput or SerializedInput.
type ReverseInput interface {
	reverseInput()
}

// TreeInput is a document tree given directly.
type TreeInput struct {
	Tree json.RawMessage
}

// EnvelopeInput is a document wrapped as {version, document}.
type EnvelopeInput struct {
	Version  string
	Document json.RawMessage
}

// SerializedInput is a tree or envelope encoded as a JSON string.
type SerializedInput struct {
	Text string
}

func (TreeInput) reverseInput()       {}
func (EnvelopeInput) reverseInput()   {}
func (SerializedInput) reverseInput() {}

// ResolveReverseInput classifies the raw json field. Absent and falsy values
// (null, "", false, 0) are reported as a missing field.
func ResolveReverseInput(raw json.RawMessage) (ReverseInput, *pkgerrors.Error) {
	if len(raw) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, MsgMissingJSON)
	}
	value := gjson.ParseBytes(raw)
	if !truthy(value) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, MsgMissingJSON)
	}
	if value.Type == gjson.String {
		return SerializedInput{Text: value.Str}, nil
	}
	return classify(value), nil
}

// classify unwraps envelopes. A value is an envelope when its document field
// is truthy; anything else is taken as the tree itself.
func classify(value gjson.Result) ReverseInput {
	if value.IsObject() {
		if doc := value.Get("document"); truthy(doc) {
			return EnvelopeInput{
				Version:  value.Get("version").String(),
				Document: json.RawMessage(doc.Raw),
			}
		}
	}
	return TreeInput{Tree: json.RawMessage(value.Raw)}
}

func truthy(value gjson.Result) bool {
	switch value.Type {
	case gjson.Null, gjson.False:
		return false
	case gjson.String:
		return value.Str != ""
	case gjson.Number:
		return value.Num != 0
	}
	return true
}
