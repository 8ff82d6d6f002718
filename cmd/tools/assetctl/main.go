// Command assetctl runs schema migrations and spreadsheet import/export
// against the asset database configured for the API.
package main

import (
	"io"
	"os"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		os.Exit(1)
	}
}

// run executes one command line and always releases the database
func run(args []string, out io.Writer) error {
	a := &app{}
	defer a.close()

	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetOut(out)
	return root.Execute()
}
