// Package format renders parse results and grammars for the command line.
package format

import (
	"encoding"
	"fmt"
	"io"

	"github.com/dhamidi/chomsky/cyk"
)

type Encoder interface {
	encoding.TextMarshaler
	Encode(res *cyk.Result) error
}

// Names lists the accepted values of ForName.
var Names = []string{"json", "text", "bracket", "line"}

// ForName returns the result encoder registered under name.
func ForName(name string, w io.Writer) (Encoder, error) {
	switch name {
	case "json":
		return NewJSONEncoder(w), nil
	case "text":
		return NewTextEncoder(w), nil
	case "bracket":
		return NewBracketEncoder(w), nil
	case "line":
		return NewLineEncoder(w), nil
	}
	return nil, fmt.Errorf("unknown format %q", name)
}
