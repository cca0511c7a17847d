package main

import "github.com/taiiii123/discord-billing-notify/internal/cli"

func main() {
	cli.Execute()
}
