// synthbuild compiles a small web application from src/ and resources/
// into dst/, optionally watching the source tree for live rebuilds.
package main

import (
	"os"

	"github.com/fleabitdev/synthbuild/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
