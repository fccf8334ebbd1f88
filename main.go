package main

import "github.com/chrisdamba/seatyield/cmd"

func main() {
	cmd.Execute()
}
