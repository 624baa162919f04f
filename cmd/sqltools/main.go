// Command sqltools runs SQL files against a database and exports the results.
package main

import (
	"os"

	"github.com/primebrains/sqltools/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
