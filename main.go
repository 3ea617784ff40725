package main

import "nathanbeddoewebdev/mailprov/cmd"

func main() {
	cmd.Execute()
}
