// Command shopadmin is the terminal dashboard for the storefront admin API.
//
// Usage:
//
//	shopadmin login                      Sign in and store the admin token
//	shopadmin logout                     Revoke and forget the admin token
//	shopadmin whoami                     Show the signed-in admin
//	shopadmin dashboard [--period N]     Store overview, sales and traffic
//	shopadmin products list|show|create|update|delete|images
//	shopadmin orders list|show|status|export
//	shopadmin collections|bundles|offers|shipping|notifications|popups ...
//	shopadmin settings list|get|set|bulk|delete
package main

import (
	"errors"
	"fmt"
	"os"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	if err := execute(newRootCmd()); err != nil {
		var shown *shownError
		if !errors.As(err, &shown) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}
