package main

import "dienstplan/internal/app/server"

func main() {
	server.Run()
}
