package main

import "media-mirror/cmd"

func main() {
	cmd.Execute()
}
