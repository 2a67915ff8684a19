package main

import "github.com/homescout/homescout/cmd/hsc/cmd"

func main() {
	cmd.Execute()
}
