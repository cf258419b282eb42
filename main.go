package main

import "github.com/packmeta/packmeta/cmd"

func main() {
	cmd.Execute()
}
