// Command assemblyzero drives the issue workflow runtime: it resolves a
// checkpoint location, constructs the collaborator-bound node registry,
// and runs or resumes the N0…N8 graph for a single issue.
package main

import (
	"os"

	"github.com/martymcenroe/assemblyzero/cmd/assemblyzero/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
