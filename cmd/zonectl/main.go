package main

const (
	// Version information
	version = "0.1.0-dev"
	appName = "zonectl"
)

func main() {
	Execute()
}
