package main

import "studyforge/cmd/sf/root"

func main() {
	root.Execute()
}
