package main

import "github.com/AzielCF/az-inbox/cmd"

func main() {
	cmd.Execute()
}
