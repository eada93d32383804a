// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rank

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrUnparseable marks a model reply that holds no usable rankings.
var ErrUnparseable = errors.New("unparseable ranking reply")

// fencedJSON matches the first ```json block holding a JSON object.
var fencedJSON = regexp.MustCompile("(?s)```json\\s*(\\{.*?\\})\\s*```")

// Reply is the ranking object the model is asked to return.
type Reply struct {
	Rankings []Ranking `json:"rankings" validate:"required,dive"`
}

// Ranking is one entry of a Reply. PaperIndex is 1-based into the papers
// sent in the prompt.
type Ranking struct {
	PaperIndex *float64 `json:"paper_index" validate:"required"`
	Score      float64  `json:"score"`
	Reasoning  string   `json:"reasoning"`
}

// Position returns the 0-based paper position this ranking points at. It
// reports false for non-integral indices and for positions outside [0, n).
func (r Ranking) Position(n int) (int, bool) {
	if r.PaperIndex == nil {
		return 0, false
	}
	idx := *r.PaperIndex
	if idx != math.Trunc(idx) {
		return 0, false
	}
	pos := int(idx) - 1
	if pos < 0 || pos >= n {
		return 0, false
	}
	return pos, true
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// DecodeReply extracts the first fenced JSON block from text, decodes it,
// and validates its shape. Every failure wraps ErrUnparseable.
func DecodeReply(text string) (Reply, error) {
	m := fencedJSON.FindStringSubmatch(text)
	if m == nil {
		return Reply{}, fmt.Errorf("%w: no fenced json block", ErrUnparseable)
	}

	var reply Reply
	if err := json.Unmarshal([]byte(m[1]), &reply); err != nil {
		return Reply{}, fmt.Errorf("%w: decoding json: %w", ErrUnparseable, err)
	}

	if err := validate.Struct(reply); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return Reply{}, fmt.Errorf("%w: %s", ErrUnparseable, describe(verrs))
		}
		return Reply{}, fmt.Errorf("%w: %w", ErrUnparseable, err)
	}
	return reply, nil
}

// describe renders validation failures as "rankings[0].paper_index is required".
func describe(errs validator.ValidationErrors) string {
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		path := e.Namespace()
		if _, rest, ok := strings.Cut(path, "."); ok {
			path = rest
		}
		switch e.Tag() {
		case "required":
			msgs = append(msgs, path+" is required")
		default:
			msgs = append(msgs, path+" is invalid")
		}
	}
	return strings.Join(msgs, ", ")
}
