package main

import "userdata-server/cmd"

func main() {
	cmd.Execute()
}
