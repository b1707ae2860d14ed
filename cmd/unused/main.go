// Package main is the entry point for the unused command-line tool.
package main

func main() {
	Execute()
}
