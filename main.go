package main

import "github.com/nrad-K/go-hh-agent/cmd"

func main() {
	cmd.Execute()
}
