package main

import "github.com/thevedantmod/stand-clear/internal/cli"

func main() {
	cli.Execute()
}
