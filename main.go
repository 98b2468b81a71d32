package main

import "github.com/skoov/coverhunter/cmd"

var execute = cmd.Execute

func main() {
	execute()
}
