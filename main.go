package main

import "github.com/mselser95/packs-bot/cmd"

func main() {
	cmd.Execute()
}
