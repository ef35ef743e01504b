// Command unused-messages reports the i18n message keys of the extension or
// skin in the working directory that nothing uses.
package main

import (
	"os"

	"github.com/mwtools/unusedres/internal/cli"
)

func main() {
	os.Exit(cli.Execute(cli.NewMessagesCommand(cli.DefaultEnv()), os.Args[1:]))
}
