package main

import "list-sync/cmd"

func main() {
	cmd.Execute()
}
