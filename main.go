package main

import "dtrplay/cmd"

func main() {
	cmd.Execute()
}
