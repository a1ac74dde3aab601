package main

import "github.com/actlog-project/actlog/internal/cli"

func main() {
	cli.Execute()
}
