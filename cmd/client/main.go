package main

import "sitelog/cmd/client/cmd"

func main() {
	cmd.Execute()
}
