package main

import (
	"os"

	"github.com/edhuardotierrez/gcop/pkg/gcop"
)

func main() {
	os.Exit(gcop.Run())
}
