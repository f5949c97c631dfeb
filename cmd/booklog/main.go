package main

import "booklog/cmd/booklog/cmd"

func main() {
	cmd.Execute()
}
