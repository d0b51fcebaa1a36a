package main

import "github.com/matharman/jjsum/cmd"

func main() {
	cmd.Execute()
}
