package main

import "github.com/tclindner/bitbucket-server-cli/cmd"

func main() {
	cmd.Execute()
}
