package main

import (
	"log"
	"os"
)

func main() {
	defer log.Println("deferred")

	if len(os.Args) > 3 {
		os.Exit(2) // want `вызов os.Exit в main запрещён, верните ошибку из run`
	}
	if len(os.Args) > 2 {
		log.Fatalf("too many args: %d", len(os.Args)) // want `вызов log.Fatalf в main запрещён, верните ошибку из run`
	}

	stop := func() {
		os.Exit(1)
	}
	_ = stop

	log.Println("ok")
}

func helper() {
	os.Exit(1)
}
