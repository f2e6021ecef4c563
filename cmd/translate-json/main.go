// Command translate-json translates every string in a JSON document into
// one or more languages while keeping the document's structure.
package main

func main() {
	execute()
}
