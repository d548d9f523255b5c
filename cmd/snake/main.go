package main

import (
	"math/rand"
	"time"

	"github.com/hoangpq/snake-engine/cmd/snake/commands"
)

func main() {
	rand.Seed(time.Now().UnixNano())
	commands.Execute()
}
