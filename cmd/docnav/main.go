// Command docnav renders a documentation site and inspects its navigation.
package main

import (
	"os"

	_ "github.com/dgallion1/docnav/internal/navigation"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
