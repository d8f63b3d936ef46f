// Public domain.

package main

import "github.com/soniakeys/spicer/internal/o2dprog"

func main() {
	o2dprog.Main()
}
