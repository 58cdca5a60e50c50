package main

import "feed-sync/cmd"

func main() {
	cmd.Execute()
}
