package main

import "github.com/jafrydeep2/offmarket-sub000/internal/app"

func main() {
	app.Run()
}
