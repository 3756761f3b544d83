package conversion

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	pkgerrors "github.com/angelmondragon/prosemirror-api/pkg/errors"
	"github.com/angelmondragon/prosemirror-api/pkg/logger"
	"github.com/angelmondragon/prosemirror-api/pkg/metrics"
	"github.com/angelmondragon/prosemirror-api/pkg/prosemirror"
	"github.com/tidwall/gjson"
)

// Service converts between HTML and document trees.
type Service interface {
	Convert(ctx context.Context, html string) Result[*prosemirror.Node]
	ConvertEscaped(ctx context.Context, html string) Result[string]
	Reverse(ctx context.Context, input ReverseInput) Result[string]
}

type service struct {
	schema  *prosemirror.Schema
	logg    *logger.Logger
	metrics *metrics.ConversionMetrics
}

// ServiceParams bundles the dependencies required to build a conversion service.
type ServiceParams struct {
	Schema  *prosemirror.Schema
	Logger  *logger.Logger
	Metrics *metrics.ConversionMetrics
}

// NewService constructs a conversion service. Metrics are optional.
func NewService(params ServiceParams) (Service, error) {
	if params.Schema == nil {
		return nil, fmt.Errorf("schema is required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &service{
		schema:  params.Schema,
		logg:    params.Logger,
		metrics: params.Metrics,
	}, nil
}

func (s *service) Convert(ctx context.Context, html string) Result[*prosemirror.Node] {
	return s.parse(ctx, OperationConvert, html)
}

func (s *service) ConvertEscaped(ctx context.Context, html string) Result[string] {
	res := s.parse(ctx, OperationConvertEscaped, html)
	if !res.OK() {
		return fail[string](res.Err())
	}

	encoded, err := encodeEnvelope(Envelope{Version: EnvelopeVersion, Document: res.Value()})
	if err != nil {
		return fail[string](s.failed(ctx, OperationConvertEscaped, pkgerrors.Wrap(pkgerrors.CodeConversion, err, MsgConvertFailed)))
	}
	return succeed(encoded)
}

func (s *service) Reverse(ctx context.Context, input ReverseInput) Result[string] {
	if input == nil {
		return fail[string](pkgerrors.New(pkgerrors.CodeValidation, MsgMissingJSON))
	}
	start := time.Now()

	raw, perr := s.documentBytes(input)
	if perr != nil {
		s.metrics.Observe(OperationReverse, time.Since(start), perr)
		return fail[string](s.failed(ctx, OperationReverse, perr))
	}

	var doc *prosemirror.Node
	if err := json.Unmarshal(raw, &doc); err != nil {
		err = fmt.Errorf("invalid document: %w", err)
		s.metrics.Observe(OperationReverse, time.Since(start), err)
		return fail[string](s.failed(ctx, OperationReverse, pkgerrors.Wrap(pkgerrors.CodeConversion, err, MsgReverseFailed)))
	}

	html, err := s.schema.RenderHTML(doc)
	s.metrics.Observe(OperationReverse, time.Since(start), err)
	if err != nil {
		return fail[string](s.failed(ctx, OperationReverse, pkgerrors.Wrap(pkgerrors.CodeConversion, err, MsgReverseFailed)))
	}
	return succeed(html)
}

func (s *service) parse(ctx context.Context, operation, html string) Result[*prosemirror.Node] {
	if html == "" {
		return fail[*prosemirror.Node](pkgerrors.New(pkgerrors.CodeValidation, MsgMissingHTML))
	}

	start := time.Now()
	doc, err := s.schema.ParseHTML(html)
	s.metrics.Observe(operation, time.Since(start), err)
	if err != nil {
		return fail[*prosemirror.Node](s.failed(ctx, operation, pkgerrors.Wrap(pkgerrors.CodeConversion, err, MsgConvertFailed)))
	}
	return succeed(doc)
}

// documentBytes returns the JSON of the tree to render. Serialized input is
// parsed once and then handled like an object; a string inside the string is
// not unwrapped again.
func (s *service) documentBytes(input ReverseInput) ([]byte, *pkgerrors.Error) {
	switch in := input.(type) {
	case TreeInput:
		return in.Tree, nil
	case EnvelopeInput:
		return in.Document, nil
	case SerializedInput:
		if !gjson.Valid(in.Text) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeParse, syntaxError(in.Text), MsgReverseFailed)
		}
		return s.documentBytes(classify(gjson.Parse(in.Text)))
	}
	return nil, pkgerrors.New(pkgerrors.CodeInternal, fmt.Sprintf("unsupported reverse input %T", input))
}

func (s *service) failed(ctx context.Context, operation string, err *pkgerrors.Error) *pkgerrors.Error {
	ctx = s.logg.WithOperation(ctx, operation)
	s.logg.Error(ctx, "conversion.failed", err)
	return err
}

func syntaxError(text string) error {
	var probe json.RawMessage
	if err := json.Unmarshal([]byte(text), &probe); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	return errors.New("invalid JSON")
}

// encodeEnvelope serializes without HTML escaping so the stored string keeps
// markup characters readable.
func encodeEnvelope(env Envelope) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(env); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}
