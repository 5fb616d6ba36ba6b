package main

import "github.com/nfrund/accountctl/cmd/accountctl/cmd"

func main() {
	cmd.Execute()
}
