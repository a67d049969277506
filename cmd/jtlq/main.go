package main

import "jtlq/cmd"

func main() {
	cmd.Execute()
}
