package debug

import (
	"bytes"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/coral-mesh/swd/internal/cli/helpers"
	"github.com/coral-mesh/swd/internal/constants"
	"github.com/coral-mesh/swd/internal/registry"
	"github.com/coral-mesh/swd/internal/safe"
	"github.com/coral-mesh/swd/pkg/swd"
)

// TagRow is one decoded tag.
type TagRow struct {
	Offset int64  `header:"OFFSET" json:"offset"`
	Kind   string `header:"KIND" json:"kind"`
	Detail string `header:"DETAIL" json:"detail"`
}

// NewTagsCmd creates the tags command.
func NewTagsCmd(env *helpers.Env) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "tags <file>",
		Short: "Dump the decoded tag stream of an SWD file",
		Long: `Decodes an SWD file tag by tag without assembling it.

Tags decoded before a malformed record are still printed; the command then
fails with the decode error.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter, err := env.Formatter(format)
			if err != nil {
				return err
			}

			data, err := safe.ReadFile(args[0], &safe.ReadOptions{MaxSize: constants.MaxStreamSize, AllowSymlinks: true})
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[0], err)
			}
			stream, _, err := registry.Decompress(data)
			if err != nil {
				return fmt.Errorf("failed to decompress %s: %w", args[0], err)
			}

			rows, version, decodeErr := decodeTags(stream)
			env.Logger.Debug().
				Str("path", args[0]).
				Uint8("version", version).
				Int("tags", len(rows)).
				Msg("Decoded tag stream")

			if err := formatter.Format(rows, cmd.OutOrStdout()); err != nil {
				return err
			}
			if decodeErr != nil {
				return fmt.Errorf("failed to decode %s: %w", args[0], decodeErr)
			}
			return nil
		},
	}

	helpers.AddFormatFlag(cmd, &format)

	return cmd
}

// decodeTags decodes every tag of stream, stopping at the first error.
func decodeTags(stream []byte) ([]TagRow, uint8, error) {
	dec := swd.NewDecoder(bytes.NewReader(stream))
	if err := dec.ReadMagic(); err != nil {
		return nil, 0, err
	}
	version, err := dec.ReadVersion()
	if err != nil {
		return nil, 0, err
	}

	rows := []TagRow{}
	start := dec.Offset()
	for tag, err := range dec.Tags() {
		if err != nil {
			return rows, version, err
		}
		rows = append(rows, TagRow{
			Offset: start,
			Kind:   tag.Kind().String(),
			Detail: helpers.TagDetail(tag),
		})
		start = dec.Offset()
	}
	return rows, version, nil
}
