package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/reqresolve/pkg/resolve"
)

// WriteJSON encodes the result as indented JSON.
func WriteJSON(w io.Writer, res *resolve.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(FromResult(res)); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

// WriteTOML encodes the result as TOML, one [[nodes]] table per key.
func WriteTOML(w io.Writer, res *resolve.Result) error {
	enc := toml.NewEncoder(w)
	enc.Indent = "  "
	if err := enc.Encode(FromResult(res)); err != nil {
		return fmt.Errorf("encode toml: %w", err)
	}
	return nil
}
