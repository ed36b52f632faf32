// Command storefront serves and manages the product catalog.
package main

import "github.com/mesh-intelligence/storefront/internal/cli"

func main() {
	cli.Execute()
}
