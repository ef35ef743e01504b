// Command unused-css reports the CSS classes of the extension or skin in
// the working directory that nothing uses.
package main

import (
	"os"

	"github.com/mwtools/unusedres/internal/cli"
)

func main() {
	os.Exit(cli.Execute(cli.NewCSSCommand(cli.DefaultEnv()), os.Args[1:]))
}
