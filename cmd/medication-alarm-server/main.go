package main

import "github.com/oshokin/medication-alarm/cmd/medication-alarm-server/cmd"

func main() {
	cmd.Execute()
}
