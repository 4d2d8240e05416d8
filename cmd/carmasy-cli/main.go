package main

import "github.com/nfrund/carmasy/cmd/carmasy-cli/cmd"

func main() {
	cmd.Execute()
}
