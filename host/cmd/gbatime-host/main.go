package main

import "gbatime/host/cmd/gbatime-host/cmd"

func main() {
	cmd.Execute()
}
