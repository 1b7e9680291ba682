package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Print the CLI version",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{offline: "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := map[string]string{"version": version, "commit": commit}
			return render(cmd, info, writeTo(func(w io.Writer) {
				_, _ = fmt.Fprintf(w, "hub version %s (commit: %s)\n", version, commit)
			}))
		},
	}
}
