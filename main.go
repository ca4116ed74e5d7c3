package main

import "filelist-diff/cmd"

func main() {
	cmd.Execute()
}
