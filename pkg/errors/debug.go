package errors

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"
)

type ErrorDump struct {
	TopMessage string `json:"top_message"`
	Code       Code   `json:"code,omitempty"`

	Chain []string `json:"chain,omitempty"`

	// Causes lists the individual errors when the chain holds a combined
	// multierr value, such as a tree validation failure.
	Causes []string `json:"causes,omitempty"`
}

func Dump(err error) ErrorDump {
	if err == nil {
		return ErrorDump{}
	}

	d := ErrorDump{
		TopMessage: err.Error(),
	}

	if te := As(err); te != nil {
		d.Code = te.Code()
	}

	for e := err; e != nil; e = errors.Unwrap(e) {
		d.Chain = append(d.Chain, fmt.Sprintf("%T: %v", e, e))
		if errs := multierr.Errors(e); len(errs) > 1 {
			for _, inner := range errs {
				d.Causes = append(d.Causes, inner.Error())
			}
			break
		}
	}

	return d
}
