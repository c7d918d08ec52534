package main

import (
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
)

func versionCmd() *cobra.Command {
	var short bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print version and build information for the scrollock CLI.`,
		Run: func(cmd *cobra.Command, args []string) {
			if short {
				fmt.Println(resolveVersion())
				return
			}

			printBanner()
			fmt.Println()
			info("Version: %s", resolveVersion())
			if rev, dirty := vcsRevision(); rev != "" {
				if dirty {
					rev += " (modified)"
				}
				info("Commit:  %s", rev)
			}
			info("Runtime: %s %s/%s", runtime.Version(), runtime.GOOS, runtime.GOARCH)
			fmt.Println()
		},
	}

	cmd.Flags().BoolVarP(&short, "short", "s", false, "Print only the version number")

	return cmd
}

// resolveVersion prefers the release version injected at build time and
// falls back to the module version the Go toolchain stamped into the
// binary (go install module@version).
func resolveVersion() string {
	if version != "dev" {
		return version
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		if v := bi.Main.Version; v != "" && v != "(devel)" {
			return v
		}
	}
	return version
}

// vcsRevision returns the VCS revision recorded in the build info, if any,
// and whether the working tree was dirty at build time.
func vcsRevision() (string, bool) {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return "", false
	}
	var rev string
	var dirty bool
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			rev = s.Value
			if len(rev) > 12 {
				rev = rev[:12]
			}
		case "vcs.modified":
			dirty = s.Value == "true"
		}
	}
	return rev, dirty
}
