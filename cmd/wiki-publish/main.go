/*
Copyright © 2024 paul <paul@denknerd.org>
*/

package main

import "os"

func main() {
	// cobra has already printed the error.
	if err := Execute(); err != nil {
		os.Exit(1)
	}
}
