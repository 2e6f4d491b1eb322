// cmd/novokmer/main.go
package main

import (
	"novokmer/internal/app"
	"novokmer/internal/appshell"
)

func main() {
	appshell.Main(app.RunContext)
}
