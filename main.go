package main

import "github.com/surge-downloader/pomo/cmd"

func main() {
	cmd.Execute()
}
