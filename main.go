package main

import "github.com/stencilgen/stencil/cmd"

func main() {
	cmd.Execute()
}
