package cmd

import "io"

func init() {
	RegisterCommand(&Command{
		Name:  "version",
		Short: "Show version information",
		Long:  "Print the framehost version and build time.",
		Usage: "framehost version",
		Run: func(_ []string, out, _ io.Writer) error {
			printVersion(out)
			return nil
		},
	})
}
