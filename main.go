package main

import (
	"fmt"

	_ "github.com/agentuity/go-collections/cache"
	_ "github.com/agentuity/go-collections/eventing"
	_ "github.com/agentuity/go-collections/logger"
	_ "github.com/agentuity/go-collections/queue"
	_ "github.com/agentuity/go-collections/replay"
	_ "github.com/agentuity/go-collections/tui"
)

func main() {
	fmt.Println("Hi")
}
