// Command molcraft is the molecule analysis CLI.
package main

import "github.com/molcraft/molcraft/internal/interfaces/cli"

func main() {
	cli.Execute()
}
