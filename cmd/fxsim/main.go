package main

import "github.com/quantfold/fxsim/cmd/fxsim/cmd"

func main() {
	cmd.Execute()
}
