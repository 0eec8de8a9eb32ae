package main

import "github.com/jjenkins/programselect/cmd"

func main() {
	cmd.Execute()
}
