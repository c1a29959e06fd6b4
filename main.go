package main

import "github.com/notargets/thermofem/cmd"

func main() {
	cmd.Execute()
}
