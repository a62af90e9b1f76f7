package main

import "github.com/ValentinKolb/dPB/cmd"

func main() {
	cmd.Execute()
}
