package main

import "github.com/Aashish23092/taxwise-dashboard/cmd"

func main() {
	cmd.Execute()
}
