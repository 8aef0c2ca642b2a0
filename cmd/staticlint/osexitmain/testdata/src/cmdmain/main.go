package main

import "os"

func helper() {
	os.Exit(2)
}

func main() {
	defer helper()
	func() {
		os.Exit(3)
	}()
	if len(os.Args) > 5 {
		os.Exit(1) // want `os.Exit called directly in main`
	}
}
