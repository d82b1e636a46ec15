package main

import (
	"fmt"
	"os"
)

func main() {
	root, closeStore := newRootCmd()
	err := root.Execute()
	if cerr := closeStore(); cerr != nil && err == nil {
		err = cerr
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
