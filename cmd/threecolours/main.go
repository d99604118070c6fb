// threecolours picks foreground, middleground and background colours
// from an image.
package main

import (
	"os"

	"github.com/jmylchreest/threecolours/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
