package main

import "github.com/user/metropolis/cmd"

func main() {
	cmd.Execute()
}
