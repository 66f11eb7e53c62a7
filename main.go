// main.go is the booper entry point. It only injects the build-stamped tool
// version and executes the Cobra root command; the release logic lives in
// cmd and internal so it stays testable.
package main

import (
	"fmt"
	"os"

	"github.com/RuairidhWilliamson/booper/cmd"
)

// version defaults to dev. Release builds override it with
// -ldflags "-X main.version=vX.Y.Z".
var version = "dev"

func main() {
	if err := cmd.Execute(version); err != nil {
		fmt.Fprintf(os.Stderr, "booper error: %v\n", err)
		os.Exit(1)
	}
}
