package main

import (
	"log"

	"github.com/mavi-suporte/helpdesk-service/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
