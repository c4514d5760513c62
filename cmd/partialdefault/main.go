// Command partialdefault generates partial-default constructors for Go types.
package main

import (
	"fmt"
	"os"

	"github.com/teranos/partialdefault/cmd/partialdefault/commands"
	"github.com/teranos/partialdefault/errors"
	"github.com/teranos/partialdefault/logger"
)

func main() {
	err := commands.RootCmd.Execute()
	logger.Cleanup()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if hints := errors.FlattenHints(err); hints != "" {
			fmt.Fprintf(os.Stderr, "Hint: %s\n", hints)
		}
		os.Exit(1)
	}
}
