package main

import "github.com/init-pkg/space-summary/internal/bootstrap"

//	@title			Space Summary API
//	@version		1.0
//	@description	Aggregates floor area per usage category from uploaded room spreadsheets.
//	@BasePath		/
func main() {
	bootstrap.Run()
}
