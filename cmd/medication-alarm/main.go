package main

import "github.com/oshokin/medication-alarm/cmd/medication-alarm/cmd"

func main() {
	cmd.Execute()
}
