package main

import "github.com/rpupo63/portfolio-blog-backend/cmd"

func main() {
	cmd.Execute()
}
