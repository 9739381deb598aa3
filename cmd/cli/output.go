package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"goeda/internal/errors"
)

const (
	formatJSON = "json"
	formatYAML = "yaml"
)

func parseFormat(s string) (string, error) {
	switch f := strings.ToLower(strings.TrimSpace(s)); f {
	case formatJSON, formatYAML:
		return f, nil
	case "yml":
		return formatYAML, nil
	}
	return "", errors.InvalidInput(fmt.Sprintf("unknown output format %q (use json or yaml)", s))
}

// render writes v in the requested format. YAML goes through the JSON encoding
// first so custom JSON marshalers (cells, column types) shape both outputs.
func render(w io.Writer, format string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encode result")
	}
	if format == formatJSON {
		_, err = fmt.Fprintln(w, string(data))
		return err
	}

	var generic interface{}
	if err := json.Unmarshal(data, &generic); err != nil {
		return errors.Wrap(err, "encode result")
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(generic); err != nil {
		return errors.Wrap(err, "encode yaml")
	}
	return enc.Close()
}
