package main

import "github.com/vibast-solutions/ms-go-storefront/cmd"

func main() {
	cmd.Execute()
}
