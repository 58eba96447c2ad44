package main

import (
	"fmt"
	"os"

	"github.com/curiolabs/curio-server/curioservice"
)

func main() {
	if err := curioservice.Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
