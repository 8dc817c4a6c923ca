// clipctl runs the clip pipeline from the command line.
package main

import (
	"os"

	"github.com/anatolykoptev/go_clip/internal/cli"
)

var version = "dev"

func main() {
	if err := cli.Execute(version); err != nil {
		os.Exit(1)
	}
}
