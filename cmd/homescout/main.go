package main

import "github.com/homescout/homescout/cmd/homescout/cmd"

func main() {
	cmd.Execute()
}
