package main

import "github.com/mcoot/pegjump/internal/cli"

func main() {
	cli.Execute()
}
