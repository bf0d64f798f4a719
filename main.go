package main

import (
	"log"

	"github.com/gridclear/meritsim/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
