package lambda

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-yaml"
)

// ToMap converts e to a tree of maps suitable for generic encoders:
//
//	Var → {"var": name}
//	Abs → {"abs": {"param": p, "body": …}}
//	App → {"app": {"fun": …, "arg": …}}
func ToMap(e Expr) map[string]any {
	switch x := e.(type) {
	case Var:
		return map[string]any{"var": x.Name}

	case Abs:
		return map[string]any{
			"abs": map[string]any{
				"param": x.Param,
				"body":  ToMap(x.Body),
			},
		}

	case App:
		return map[string]any{
			"app": map[string]any{
				"fun": ToMap(x.Fun),
				"arg": ToMap(x.Arg),
			},
		}
	}

	return nil
}

// FormatJSON writes v as JSON to w. Expressions and lines are converted with
// [ToMap] and [Line.ToMap]; any other value is encoded as is.
func FormatJSON(w io.Writer, v any, indent int) error {
	var (
		data []byte
		err  error
	)

	if indent > 0 {
		data, err = json.MarshalIndent(encodable(v), "", strings.Repeat(" ", indent))
	} else {
		data, err = json.Marshal(encodable(v))
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(data))

	return err
}

// FormatYAML writes v as YAML to w. A zero indent selects flow style.
func FormatYAML(ctx context.Context, w io.Writer, v any, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	data, err := yaml.MarshalContext(ctx, encodable(v), opts...)
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(w, string(data))

	return err
}

func encodable(v any) any {
	switch x := v.(type) {
	case Expr:
		return ToMap(x)

	case Line:
		return x.ToMap()

	case []Line:
		out := make([]map[string]any, 0, len(x))
		for _, l := range x {
			out = append(out, l.ToMap())
		}

		return out
	}

	return v
}
