package main

import "github.com/templui/ahorros/cmd/ahorros/cmd"

func main() {
	cmd.Execute()
}
