// Command unloaded-messages compares the messages each ResourceLoader module
// loads with the messages its scripts use.
package main

import (
	"os"

	"github.com/mwtools/unusedres/internal/cli"
)

func main() {
	os.Exit(cli.Execute(cli.NewModulesCommand(cli.DefaultEnv()), os.Args[1:]))
}
