package main

import "github.com/Laz627/life-rpg/cmd/life-rpg/root"

func main() {
	root.Execute()
}
