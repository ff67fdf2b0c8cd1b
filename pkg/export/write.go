package export

import (
	"context"
	"fmt"
	"io"

	"github.com/matzehuels/reqresolve/pkg/errors"
	"github.com/matzehuels/reqresolve/pkg/resolve"
)

// Write encodes res in one of the machine formats. Text output is styled
// for a terminal and lives with the CLI, so [FormatText] is rejected here.
func Write(ctx context.Context, w io.Writer, res *resolve.Result, f Format) error {
	switch f {
	case FormatJSON:
		return WriteJSON(w, res)
	case FormatTOML:
		return WriteTOML(w, res)
	case FormatDOT:
		_, err := io.WriteString(w, ToDOT(res))
		return err
	case FormatSVG:
		svg, err := RenderSVG(ctx, ToDOT(res))
		if err != nil {
			return err
		}
		if _, err := w.Write(svg); err != nil {
			return fmt.Errorf("write svg: %w", err)
		}
		return nil
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "format %q cannot be written as a document", f)
	}
}
